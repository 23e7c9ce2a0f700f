package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "A much longer piece of chunk text that should still hash consistently across calls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestDepth_String(t *testing.T) {
	tests := []struct {
		depth Depth
		want  string
	}{
		{DepthSurface, "surface"},
		{DepthModerate, "moderate"},
		{DepthDeep, "deep"},
		{Depth(0), "unknown"},
		{Depth(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.depth.String(); got != tt.want {
			t.Errorf("Depth(%d).String() = %q, want %q", tt.depth, got, tt.want)
		}
	}
}

func TestParseDepth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Depth
		wantErr bool
	}{
		{name: "surface", input: "surface", want: DepthSurface},
		{name: "moderate", input: "moderate", want: DepthModerate},
		{name: "deep", input: "deep", want: DepthDeep},
		{name: "unknown tag", input: "thorough", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "case sensitive", input: "Deep", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDepth(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDepth(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDepth(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDepth(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceKind_String(t *testing.T) {
	if SourceCorpus.String() != "corpus" {
		t.Errorf("SourceCorpus.String() = %q", SourceCorpus.String())
	}
	if SourceWeb.String() != "web" {
		t.Errorf("SourceWeb.String() = %q", SourceWeb.String())
	}
	if SourceKind(0).String() != "unknown" {
		t.Errorf("SourceKind(0).String() = %q", SourceKind(0).String())
	}
}

func TestCostBreakdown_Total(t *testing.T) {
	b := CostBreakdown{Planning: 0.1, Execution: 0.25, Synthesis: 0.05}
	if got := b.Total(); got != 0.4 {
		t.Errorf("Total() = %v, want 0.4", got)
	}
}
