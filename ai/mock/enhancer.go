package mock

import (
	"context"
	"strings"

	"github.com/poiesic/kbforge/ai"
)

// MockEnhancer is a test double for ai.Enhancer.
// It allows custom behavior injection via function fields.
type MockEnhancer struct {
	// EnhanceFunc is called by Enhance if set.
	// If nil, uses default deterministic behavior.
	EnhanceFunc func(ctx context.Context, text string) (*ai.EnhanceResult, error)

	callCount int
}

// NewMockEnhancer creates a mock enhancer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEnhancer() *MockEnhancer {
	return &MockEnhancer{}
}

// Enhance returns the input with collapsed whitespace and a fixed nonzero
// cost, simulating a successful provider call.
func (m *MockEnhancer) Enhance(ctx context.Context, text string) (*ai.EnhanceResult, error) {
	m.callCount++

	if m.EnhanceFunc != nil {
		return m.EnhanceFunc(ctx, text)
	}

	enhanced := strings.Join(strings.Fields(text), " ")
	changes := []string{}
	if enhanced != text {
		changes = append(changes, "whitespace")
	}

	return &ai.EnhanceResult{
		Text:       enhanced,
		Changes:    changes,
		Cost:       0.0001,
		TokensUsed: len(strings.Fields(text)),
	}, nil
}

// CallCount returns the number of times Enhance was called.
func (m *MockEnhancer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEnhancer) Reset() {
	m.callCount = 0
	m.EnhanceFunc = nil
}
