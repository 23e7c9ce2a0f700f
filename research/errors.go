package research

import "errors"

var (
	// ErrProviderRequired is returned when no AI provider is supplied.
	ErrProviderRequired = errors.New("ai provider is required")
	// ErrPipelineRequired is returned when no retrieval pipeline is supplied.
	ErrPipelineRequired = errors.New("retrieval pipeline is required")
	// ErrEmptyQuery is returned when Research is called with a blank query.
	ErrEmptyQuery = errors.New("research query must not be empty")
	// ErrOrchestratorClosed is returned when using a released orchestrator.
	ErrOrchestratorClosed = errors.New("orchestrator has been closed")
)
