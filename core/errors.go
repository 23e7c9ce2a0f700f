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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrInvalidDepth indicates an unrecognized depth tag.
	ErrInvalidDepth = errors.New("invalid depth")

	// ErrInvalidSubtask indicates a ResearchSubtask failed validation.
	ErrInvalidSubtask = errors.New("invalid subtask")

	// ErrEmptyQuery indicates the Query field is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidPlan indicates a ResearchPlan failed validation.
	ErrInvalidPlan = errors.New("invalid research plan")

	// ErrDuplicateSubtaskID indicates two subtasks in a plan share an ID.
	ErrDuplicateSubtaskID = errors.New("duplicate subtask id")
)
