package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
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

func TestOptimizationMethod_String(t *testing.T) {
	tests := []struct {
		method OptimizationMethod
		want   string
	}{
		{MethodPattern, "pattern"},
		{MethodHybrid, "hybrid"},
		{MethodLLM, "llm"},
		{OptimizationMethod(0), "unknown"},
		{OptimizationMethod(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("OptimizationMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestPolicyStatus_String(t *testing.T) {
	tests := []struct {
		status PolicyStatus
		want   string
	}{
		{PolicyPassed, "PASSED"},
		{PolicyFailed, "FAILED"},
		{PolicyWarnings, "WARNINGS"},
		{PolicyStatus(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("PolicyStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative clamps to zero", -5, 0},
		{"zero stays zero", 0, 0},
		{"in range unchanged", 42.5, 42.5},
		{"hundred stays hundred", 100, 100},
		{"above hundred clamps", 250, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampScore(tt.in); got != tt.want {
				t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQualityMetrics_Dimension(t *testing.T) {
	m := &QualityMetrics{
		Dimensions: map[string]float64{
			DimensionQuality:  80,
			DimensionSecurity: 95,
		},
	}

	if got := m.Dimension(DimensionQuality); got != 80 {
		t.Errorf("Dimension(quality) = %v, want 80", got)
	}
	if got := m.Dimension(DimensionKBReady); got != 0 {
		t.Errorf("Dimension(knowledgebase_ready) = %v, want 0 for absent dimension", got)
	}

	empty := &QualityMetrics{}
	if got := empty.Dimension(DimensionQuality); got != 0 {
		t.Errorf("Dimension() on nil map = %v, want 0", got)
	}
}
