// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOpenAIURL   = "https://api.openai.com/v1"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAI is a Generator backed by an OpenAI compatible chat completions
// endpoint.
type OpenAI struct {
	BaseURL string
	Model   string
	APIKey  string

	HTTPClient *http.Client
	Timeout    time.Duration
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	N           int             `json:"n,omitempty"`
	Stop        []string        `json:"stop,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return "", fmt.Errorf("llm: openai api key is required")
	}

	base := strings.TrimSpace(o.BaseURL)
	if base == "" {
		base = DefaultOpenAIURL
	}

	model := strings.TrimSpace(o.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}

	payload := openAIRequest{
		Model:       model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxOutputTokens,
		N:           params.CandidateCount,
		Stop:        params.StopSequences,
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+o.APIKey)

	var response openAIResponse
	t := transport{HTTPClient: o.HTTPClient, Timeout: o.Timeout}
	if err := t.post(ctx, strings.TrimRight(base, "/")+"/chat/completions", header, payload, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", ErrNoCandidates
	}

	return response.Choices[0].Message.Content, nil
}
