package main

import (
	"slices"
	"testing"

	"github.com/poiesic/scholar/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runWithConfig(t *testing.T, args []string) *ai.Config {
	t.Helper()

	var config *ai.Config
	app := &cli.App{
		Name: "test",
		Flags: append(commonFlags(),
			&cli.StringFlag{Name: "rerank-host"},
		),
		Action: func(c *cli.Context) error {
			var err error
			config, err = buildAIConfig(c)
			return err
		},
	}

	err := app.Run(append([]string{"test", "--db", t.TempDir()}, args...))
	require.NoError(t, err)
	require.NotNil(t, config)
	return config
}

func TestBuildAIConfig(t *testing.T) {
	t.Run("defaults apply when models unset", func(t *testing.T) {
		config := runWithConfig(t, nil)
		defaults := ai.DefaultConfig()
		assert.Equal(t, defaults.LeadModel, config.LeadModel)
		assert.Equal(t, defaults.WorkerModel, config.WorkerModel)
		assert.Equal(t, defaults.EmbeddingModel, config.EmbeddingModel)
		assert.Empty(t, config.RerankHost)
	})

	t.Run("flags override models", func(t *testing.T) {
		config := runWithConfig(t, []string{
			"--lead-model", "gpt-4o",
			"--worker-model", "gpt-4o-mini",
			"--embedding-model", "text-embedding-3-small",
		})
		assert.Equal(t, "gpt-4o", config.LeadModel)
		assert.Equal(t, "gpt-4o-mini", config.WorkerModel)
		assert.Equal(t, "text-embedding-3-small", config.EmbeddingModel)
	})

	t.Run("host is normalized with v1 suffix", func(t *testing.T) {
		config := runWithConfig(t, []string{"--host", "http://localhost:8080"})
		assert.Equal(t, "http://localhost:8080/v1", config.ChatHost)
		assert.Equal(t, "http://localhost:8080/v1", config.EmbeddingHost)
	})

	t.Run("rerank host passes through unmodified", func(t *testing.T) {
		config := runWithConfig(t, []string{"--rerank-host", "http://localhost:9090"})
		assert.Equal(t, "http://localhost:9090", config.RerankHost)
	})
}

func TestCommonFlags(t *testing.T) {
	flags := commonFlags()

	var names []string
	for _, flag := range flags {
		names = append(names, flag.Names()[0])
	}

	for _, want := range []string{"db", "host", "lead-model", "worker-model", "embedding-model", "token"} {
		assert.True(t, slices.Contains(names, want), "missing flag %s", want)
	}
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "DEBUG"})
		require.NoError(t, err)
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
