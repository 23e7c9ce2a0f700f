package research

import (
	"log/slog"

	"github.com/google/uuid"
)

// SessionState identifies a stage of the research lifecycle. Transitions
// only move forward; a failed stage substitutes a fallback payload and
// the session still advances.
type SessionState int

const (
	StatePlanning SessionState = iota + 1
	StateDispatching
	StateCollecting
	StateSynthesizing
	StateDone
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StatePlanning:
		return "planning"
	case StateDispatching:
		return "dispatching"
	case StateCollecting:
		return "collecting"
	case StateSynthesizing:
		return "synthesizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// session tracks one research call through its lifecycle.
type session struct {
	id     string
	state  SessionState
	logger *slog.Logger
}

func newSession(logger *slog.Logger) *session {
	s := &session{
		id:     uuid.NewString(),
		state:  StatePlanning,
		logger: logger,
	}
	s.logger.Info("research session started", "session", s.id)
	return s
}

// advance moves the session forward. Backward transitions are ignored
// with a warning; the lifecycle is strictly monotonic.
func (s *session) advance(next SessionState) {
	if next <= s.state {
		s.logger.Warn("ignoring backward session transition",
			"session", s.id, "from", s.state, "to", next)
		return
	}
	s.logger.Debug("session state change",
		"session", s.id, "from", s.state.String(), "to", next.String())
	s.state = next
}
