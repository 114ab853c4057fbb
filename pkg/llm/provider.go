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
	"fmt"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Options configures the Generator returned by New.
type Options struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
}

// New returns a Generator for the given provider.
func New(opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderGemini:
		return &Gemini{BaseURL: opts.BaseURL, Model: opts.Model, APIKey: opts.APIKey}, nil
	case ProviderOpenAI:
		return &OpenAI{BaseURL: opts.BaseURL, Model: opts.Model, APIKey: opts.APIKey}, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
}

// DefaultModel returns the model used for provider when none is set.
func DefaultModel(provider string) string {
	if strings.EqualFold(strings.TrimSpace(provider), ProviderOpenAI) {
		return DefaultOpenAIModel
	}

	return DefaultGeminiModel
}
