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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EnhancerHost is the base URL for the completion service used for
	// text enhancement.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EnhancerHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// EnhancerModel is the model identifier to use for text enhancement.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	EnhancerModel string

	// APIToken is the provider API token. Use "none" for local
	// OpenAI-compatible services that don't require authentication.
	APIToken string

	// RequestTimeout bounds each provider call. Both enhancement and
	// embedding are network-bound and must not block a run indefinitely.
	// Default: 60s
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEnhancerHost sets the enhancement service host URL.
func WithEnhancerHost(host string) ConfigOption {
	return func(c *Config) {
		c.EnhancerHost = host
	}
}

// WithHost sets both embedding and enhancer hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.EnhancerHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEnhancerModel sets the enhancer model identifier.
func WithEnhancerModel(model string) ConfigOption {
	return func(c *Config) {
		c.EnhancerModel = model
	}
}

// WithAPIToken sets the provider API token.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithRequestTimeout sets the per-call timeout for provider requests.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, both embedding and enhancement use
// the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		EnhancerHost:   defaultHost,
		EmbeddingModel: "embeddinggemma",
		EnhancerModel:  "qwen2.5:3b",
		APIToken:       "none",
		RequestTimeout: 60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.EnhancerHost != "" && !strings.HasSuffix(c.EnhancerHost, "/v1") {
		c.EnhancerHost = strings.TrimSuffix(c.EnhancerHost, "/")
		c.EnhancerHost = c.EnhancerHost + "/v1"
	}
	if c.APIToken == "" {
		c.APIToken = "none"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EnhancerHost == "" {
		return errors.New("ai config: EnhancerHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EnhancerModel == "" {
		return errors.New("ai config: EnhancerModel is required")
	}
	return nil
}
