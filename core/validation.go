// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - InsertedAt must not be in the future
//
// NOT validated (populated by processors):
//   - Vector (can be empty until embedding processor runs)
//   - ID (0 is valid before content hashing)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if !chunk.InsertedAt.IsZero() && !IsValidTimestamp(chunk.InsertedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateSubtask validates a ResearchSubtask according to domain rules.
//
// Validation rules:
//   - Query must not be empty
//   - Depth must be a recognized value
func ValidateSubtask(subtask *ResearchSubtask) error {
	if subtask == nil {
		return fmt.Errorf("%w: subtask is nil", ErrInvalidSubtask)
	}

	if subtask.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSubtask, ErrEmptyQuery)
	}

	if err := ValidateDepth(subtask.Depth); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSubtask, err)
	}

	return nil
}

// ValidatePlan validates a ResearchPlan according to domain rules.
//
// Validation rules:
//   - every subtask must pass ValidateSubtask
//   - subtask IDs must be unique within the plan
func ValidatePlan(plan *ResearchPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is nil", ErrInvalidPlan)
	}

	seen := make(map[int]bool, len(plan.Subtasks))
	for i := range plan.Subtasks {
		if err := ValidateSubtask(&plan.Subtasks[i]); err != nil {
			return fmt.Errorf("%w: subtask %d: %w", ErrInvalidPlan, plan.Subtasks[i].Id, err)
		}
		if seen[plan.Subtasks[i].Id] {
			return fmt.Errorf("%w: %w: %d", ErrInvalidPlan, ErrDuplicateSubtaskID, plan.Subtasks[i].Id)
		}
		seen[plan.Subtasks[i].Id] = true
	}

	return nil
}

// ValidateDepth validates that a Depth has a valid value.
func ValidateDepth(depth Depth) error {
	if depth != DepthSurface && depth != DepthModerate && depth != DepthDeep {
		return fmt.Errorf("%w: value %d", ErrInvalidDepth, depth)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
