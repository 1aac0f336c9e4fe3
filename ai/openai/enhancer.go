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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/kbforge/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// perTokenCost maps model names to estimated USD cost per 1K total tokens.
// Unknown models (including local ones) fall back to defaultPerTokenCost.
var perTokenCost = map[string]float64{
	"gpt-4o":        0.0075,
	"gpt-4o-mini":   0.000375,
	"gpt-4.1":       0.005,
	"gpt-4.1-mini":  0.001,
	"gpt-3.5-turbo": 0.001,
}

const defaultPerTokenCost = 0.001

// Enhancer implements ai.Enhancer using OpenAI-compatible chat APIs.
type Enhancer struct {
	client  llms.Model
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// enhancement is the wrapper structure for the LLM's JSON response.
type enhancement struct {
	EnhancedText string   `json:"enhanced_text"`
	Changes      []string `json:"changes"`
}

// newEnhancer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEnhancer(config *ai.Config) (*Enhancer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EnhancerHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.EnhancerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Enhancer{
		client:  client,
		model:   config.EnhancerModel,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-enhancer"),
	}, nil
}

// NewEnhancer creates a new enhancer using the provided configuration.
//
// Returns ai.Enhancer interface to enforce abstraction.
func NewEnhancer(config *ai.Config) (ai.Enhancer, error) {
	return newEnhancer(config)
}

// Enhance rewrites a single chunk of text through the completion service.
// It reports token usage and an estimated cost alongside the enhanced text.
func (e *Enhancer) Enhance(ctx context.Context, text string) (*ai.EnhanceResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("enhance: empty text")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	systemPrompt := fmt.Sprintf(enhancementPromptTemplate, enhancementResponseSchema)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result enhancement
	var tokensUsed int
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			return nil, errors.New("enhance: no choices returned from model")
		}

		choice := response.Choices[0]
		tokensUsed = totalTokens(choice.GenerationInfo)

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing enhancer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse enhancer response after retries", "err", lastErr)
		return nil, lastErr
	}

	if result.EnhancedText == "" {
		return nil, errors.New("enhance: model returned empty text")
	}

	e.logger.Debug("enhanced text",
		"in_length", len(text),
		"out_length", len(result.EnhancedText),
		"changes", len(result.Changes),
		"tokens", tokensUsed)

	return &ai.EnhanceResult{
		Text:       result.EnhancedText,
		Changes:    result.Changes,
		Cost:       e.estimateCost(tokensUsed),
		TokensUsed: tokensUsed,
	}, nil
}

// estimateCost converts a token count to an estimated USD cost for the
// configured model.
func (e *Enhancer) estimateCost(tokens int) float64 {
	rate, ok := perTokenCost[e.model]
	if !ok {
		rate = defaultPerTokenCost
	}
	return float64(tokens) / 1000.0 * rate
}

// totalTokens extracts the total token count from langchaingo generation
// info, which OpenAI-compatible providers populate inconsistently.
func totalTokens(info map[string]any) int {
	if info == nil {
		return 0
	}
	if v, ok := asInt(info["TotalTokens"]); ok {
		return v
	}
	prompt, _ := asInt(info["PromptTokens"])
	completion, _ := asInt(info["CompletionTokens"])
	return prompt + completion
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
