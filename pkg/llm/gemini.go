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
	"net/url"
	"strings"
	"time"
)

const (
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// Gemini is a Generator backed by the Gemini generateContent api.
type Gemini struct {
	BaseURL string
	Model   string
	APIKey  string

	HTTPClient *http.Client
	Timeout    time.Duration
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64  `json:"temperature"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	CandidateCount  int      `json:"candidateCount,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return "", fmt.Errorf("llm: gemini api key is required")
	}

	base := strings.TrimSpace(g.BaseURL)
	if base == "" {
		base = DefaultGeminiURL
	}

	model := strings.TrimSpace(g.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	endpoint := strings.TrimRight(base, "/") + "/models/" + url.PathEscape(model) + ":generateContent"

	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     params.Temperature,
			MaxOutputTokens: params.MaxOutputTokens,
			CandidateCount:  params.CandidateCount,
			StopSequences:   params.StopSequences,
		},
	}

	header := http.Header{}
	header.Set("x-goog-api-key", g.APIKey)

	var response geminiResponse
	t := transport{HTTPClient: g.HTTPClient, Timeout: g.Timeout}
	if err := t.post(ctx, endpoint, header, payload, &response); err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}
