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

// Package llm implements clients for remote text generation apis.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the time a single generation request is allowed to take.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 1 << 20
const maxErrorBytes = 4096

var (
	ErrTimeout      = errors.New("llm: request timed out")
	ErrNoCandidates = errors.New("llm: response has no candidates")
)

// StatusError is returned when the api responds with a non 2xx status.
type StatusError struct {
	Code int
	Body string
}

func (err *StatusError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("llm: api status %d", err.Code)
	}

	return fmt.Sprintf("llm: api status %d: %s", err.Code, err.Body)
}

// Params are the sampling parameters of a generation request.
type Params struct {
	Temperature     float64
	MaxOutputTokens int
	CandidateCount  int
	StopSequences   []string
}

// MoveParams returns the parameters used when asking for a single move.
func MoveParams() Params {
	return Params{
		Temperature:     0.3,
		MaxOutputTokens: 20,
		CandidateCount:  1,
		StopSequences:   []string{"\n", " "},
	}
}

// Generator generates a completion of a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// transport contains the http plumbing shared by the api adapters.
type transport struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

func (t transport) httpClient() *http.Client {
	if t.HTTPClient != nil {
		return t.HTTPClient
	}

	return http.DefaultClient
}

func (t transport) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// post sends payload as json to endpoint and decodes the json response
// into out. Timeouts are reported as ErrTimeout and non 2xx responses
// as a *StatusError.
func (t transport) post(ctx context.Context, endpoint string, header http.Header, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("llm: marshal request: %w", err)
	}

	requestCtx, cancel := t.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("llm: build request: %w", err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.httpClient().Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		message, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBytes))
		return &StatusError{
			Code: res.StatusCode,
			Body: strings.TrimSpace(string(message)),
		}
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(out); err != nil {
		if classified := classify(ctx, err); errors.Is(classified, ErrTimeout) {
			return classified
		}

		return fmt.Errorf("llm: decode response: %w", err)
	}

	return nil
}

// classify converts a transport error into ErrTimeout if the request ran
// out of time while the parent context is still live.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("llm: request: %w", ctx.Err())
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrTimeout
	}

	return fmt.Errorf("llm: request: %w", err)
}
