package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Depth indicates how thoroughly a research subtask should be explored.
type Depth int

const (
	// DepthSurface is a quick, shallow pass over a topic.
	DepthSurface Depth = iota + 1
	// DepthModerate is the default level of analysis.
	DepthModerate
	// DepthDeep is an exhaustive, cross-source analysis.
	DepthDeep
)

// String returns the wire representation of the depth.
func (d Depth) String() string {
	switch d {
	case DepthSurface:
		return "surface"
	case DepthModerate:
		return "moderate"
	case DepthDeep:
		return "deep"
	default:
		return "unknown"
	}
}

// ParseDepth converts a wire string into a Depth.
// Unknown values return ErrInvalidDepth so callers can substitute a default
// at the boundary instead of carrying string tags through the system.
func ParseDepth(s string) (Depth, error) {
	switch s {
	case "surface":
		return DepthSurface, nil
	case "moderate":
		return DepthModerate, nil
	case "deep":
		return DepthDeep, nil
	default:
		return 0, ErrInvalidDepth
	}
}

// Chunk is a bounded span of source text plus its provenance metadata.
// It is the unit of retrieval. Chunks are immutable once indexed; identity
// is the content hash plus the source/page key used for metadata lookups.
type Chunk struct {
	Id         ID
	Text       string
	Source     string // Document name the chunk was extracted from
	Page       int
	Section    string
	Vector     []float32 // Embedding vector for semantic search (populated by processors)
	InsertedAt time.Time
	UpdatedAt  time.Time
	Metadata   map[string]string
}

// Candidate is a scored chunk produced by one retrieval stage, prior to or
// after fusion and reranking. Score scale is method-specific until normalized.
// Candidates are transient: rebuilt per query, never persisted.
type Candidate struct {
	Text     string
	Score    float64
	Metadata map[string]string
}

// ChunkMatch is a chunk returned from vector similarity search.
type ChunkMatch struct {
	Chunk *Chunk
	Score float32
}

// ResearchSubtask is one independently executable unit of a decomposed
// research query. Created by the lead agent; consumed exactly once by
// exactly one worker; immutable after creation.
type ResearchSubtask struct {
	Id              int
	Query           string
	Focus           string
	Depth           Depth
	EstimatedTokens int
}

// ResearchPlan is the decomposition of a research goal into subtasks.
// Created once per research session and read-only afterward.
// Subtask IDs are unique within a plan (see ValidatePlan).
type ResearchPlan struct {
	Goal              string
	Subtasks          []ResearchSubtask
	SynthesisStrategy string
	EstimatedCost     float64
}

// SourceKind distinguishes where a cited source came from.
type SourceKind int

const (
	// SourceCorpus is a chunk retrieved from the document corpus.
	SourceCorpus SourceKind = iota + 1
	// SourceWeb is a web search result.
	SourceWeb
)

// String returns the wire representation of the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceCorpus:
		return "corpus"
	case SourceWeb:
		return "web"
	default:
		return "unknown"
	}
}

// SourceRef is provenance metadata for one cited source.
// For corpus sources Ref is the document name; for web sources it is the URL.
type SourceRef struct {
	Kind    SourceKind
	Title   string
	Ref     string
	Page    int
	Section string
	Domain  string // Root domain for web sources, empty otherwise
	Score   float64
}

// WorkerResult is the outcome of one dispatched subtask. Exactly one
// WorkerResult exists per dispatched subtask, even on failure: a failed
// subtask yields a result with empty findings and Failed set, never a
// missing entry. This guarantees fan-in completeness.
type WorkerResult struct {
	WorkerId   int
	Subtask    ResearchSubtask
	Findings   string
	Sources    []SourceRef
	TokensUsed int
	Cost       float64
	Failed     bool
	Err        string
}

// CostBreakdown splits the total research cost by lifecycle phase.
type CostBreakdown struct {
	Planning  float64
	Execution float64
	Synthesis float64
}

// Total returns the sum of all phases.
func (c CostBreakdown) Total() float64 {
	return c.Planning + c.Execution + c.Synthesis
}

// DiversityReport summarizes the mix of corpus and web sources cited by a
// research report.
type DiversityReport struct {
	TotalSources  int
	CorpusSources int
	WebSources    int
	UniqueDomains int
	Domains       []string
	WebPercentage float64
}

// ResearchReport is the final product of a research session.
type ResearchReport struct {
	Query         string
	Synthesis     string
	Sources       []SourceRef
	WorkerCount   int
	TotalCost     float64
	CostBreakdown CostBreakdown
	Elapsed       time.Duration
	TotalTokens   int
	Plan          ResearchPlan
	WorkerResults []WorkerResult
	Diversity     *DiversityReport
}
