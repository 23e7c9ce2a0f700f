package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/scholar/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresHost(t *testing.T) {
	_, err := NewClient("")
	assert.Equal(t, ErrHostRequired, err)
}

func TestScorePairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rerank", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test query", req.Query)
		require.Len(t, req.Texts, 3)

		// Sorted by score, as the service would return them
		json.NewEncoder(w).Encode([]rerankResult{
			{Index: 2, Score: 0.9},
			{Index: 0, Score: 0.5},
			{Index: 1, Score: 0.1},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	scores, err := client.ScorePairs(context.Background(), "test query", []string{"a", "b", "c"})
	require.NoError(t, err)

	// Scores must come back in input order
	assert.Equal(t, []float64{0.5, 0.1, 0.9}, scores)
}

func TestScorePairs_EmptyDocs(t *testing.T) {
	client, err := NewClient("http://localhost:9999")
	require.NoError(t, err)

	scores, err := client.ScorePairs(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestScorePairs_ResourceExhaustion(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "507 insufficient storage", status: http.StatusInsufficientStorage, body: ""},
		{name: "500 with oom message", status: http.StatusInternalServerError, body: "CUDA out of memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(server.URL)
			require.NoError(t, err)

			_, err = client.ScorePairs(context.Background(), "query", []string{"doc"})
			assert.True(t, errors.Is(err, ai.ErrResourceExhausted), "expected ErrResourceExhausted, got %v", err)
		})
	}
}

func TestScorePairs_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.ScorePairs(context.Background(), "query", []string{"doc"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ai.ErrResourceExhausted))
}

func TestScorePairs_IndexOutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]rerankResult{{Index: 5, Score: 0.9}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.ScorePairs(context.Background(), "query", []string{"doc"})
	assert.Error(t, err)
}
