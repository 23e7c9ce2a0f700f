package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateChunk(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:  "valid chunk",
			chunk: &Chunk{Text: "some text", Source: "paper.pdf", Page: 3, InsertedAt: now},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty text",
			chunk:   &Chunk{Source: "paper.pdf"},
			wantErr: ErrEmptyText,
		},
		{
			name:    "future timestamp",
			chunk:   &Chunk{Text: "text", InsertedAt: now.Add(time.Hour)},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:  "zero timestamp is allowed",
			chunk: &Chunk{Text: "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSubtask(t *testing.T) {
	tests := []struct {
		name    string
		subtask *ResearchSubtask
		wantErr error
	}{
		{
			name:    "valid subtask",
			subtask: &ResearchSubtask{Id: 1, Query: "what is X", Focus: "theory", Depth: DepthModerate, EstimatedTokens: 8000},
		},
		{
			name:    "nil subtask",
			subtask: nil,
			wantErr: ErrInvalidSubtask,
		},
		{
			name:    "empty query",
			subtask: &ResearchSubtask{Id: 1, Depth: DepthDeep},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "invalid depth",
			subtask: &ResearchSubtask{Id: 1, Query: "q", Depth: Depth(42)},
			wantErr: ErrInvalidDepth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubtask(tt.subtask)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSubtask() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSubtask() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlan(t *testing.T) {
	t.Run("valid plan", func(t *testing.T) {
		plan := &ResearchPlan{
			Goal: "understand X",
			Subtasks: []ResearchSubtask{
				{Id: 1, Query: "a", Depth: DepthModerate},
				{Id: 2, Query: "b", Depth: DepthDeep},
			},
		}
		if err := ValidatePlan(plan); err != nil {
			t.Errorf("ValidatePlan() unexpected error: %v", err)
		}
	})

	t.Run("duplicate subtask ids", func(t *testing.T) {
		plan := &ResearchPlan{
			Subtasks: []ResearchSubtask{
				{Id: 1, Query: "a", Depth: DepthModerate},
				{Id: 1, Query: "b", Depth: DepthModerate},
			},
		}
		err := ValidatePlan(plan)
		if !errors.Is(err, ErrDuplicateSubtaskID) {
			t.Errorf("ValidatePlan() = %v, want %v", err, ErrDuplicateSubtaskID)
		}
	})

	t.Run("nil plan", func(t *testing.T) {
		if err := ValidatePlan(nil); !errors.Is(err, ErrInvalidPlan) {
			t.Errorf("ValidatePlan(nil) = %v, want %v", err, ErrInvalidPlan)
		}
	})

	t.Run("invalid subtask inside plan", func(t *testing.T) {
		plan := &ResearchPlan{
			Subtasks: []ResearchSubtask{{Id: 1, Depth: DepthModerate}},
		}
		err := ValidatePlan(plan)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("ValidatePlan() = %v, want %v", err, ErrEmptyQuery)
		}
	})
}
