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

package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/referee/pkg/internal/util"
	"laptudirm.com/x/referee/pkg/llm"
	"laptudirm.com/x/referee/pkg/match/games"
)

const (
	DefaultAttempts = 3
	DefaultHints    = 15
)

// Governor decides when an agent may call the generation api.
type Governor interface {
	Acquire(ctx context.Context) error
}

// Agent is a seat played by a remote language model.
type Agent struct {
	color games.Color
	name  string

	Generator llm.Generator
	Governor  Governor
	Params    llm.Params

	// Attempts is the number of api calls made for a single move, and
	// Hints the number of legal moves listed in the prompt.
	Attempts int
	Hints    int

	Sleep func(context.Context, time.Duration) error
}

// NewAgent creates an Agent playing the given color.
func NewAgent(color games.Color, generator llm.Generator, governor Governor) *Agent {
	return &Agent{
		color: color,
		name:  SeatName(AgentSeat, color),

		Generator: generator,
		Governor:  governor,
		Params:    llm.MoveParams(),

		Attempts: DefaultAttempts,
		Hints:    DefaultHints,

		Sleep: util.Sleep,
	}
}

func (agent *Agent) Name() string { return agent.name }
func (agent *Agent) Kind() Kind   { return AgentSeat }

func (agent *Agent) Move(ctx context.Context, position games.Position) Response {
	legal := position.LegalMoves()
	if len(legal) == 0 {
		logrus.Warnf("No legal moves available for %s", agent.name)
		return Response{}
	}

	prompt := agent.prompt(position, legal)

	for attempt := 1; attempt <= agent.Attempts; attempt++ {
		if agent.Governor != nil {
			if err := agent.Governor.Acquire(ctx); err != nil {
				return Terminate(ReasonInterrupted)
			}
		}

		util.StartSpinner(fmt.Sprintf("%s is thinking... (attempt %d)", agent.name, attempt))
		text, err := agent.Generator.Generate(ctx, prompt, agent.Params)
		util.PauseSpinner()

		if ctx.Err() != nil {
			return Terminate(ReasonInterrupted)
		}

		var backoff time.Duration
		if err != nil {
			backoff = agent.failure(attempt, err)
		} else if mov, found := Extract(text, legal); found {
			logrus.Infof("%s suggests: %s", agent.name, mov)
			return Response{Move: mov}
		} else {
			logrus.Warnf("Could not extract valid move from response: '%s'", strings.TrimSpace(text))
			backoff = time.Second
		}

		if attempt < agent.Attempts {
			if err := agent.Sleep(ctx, backoff); err != nil {
				return Terminate(ReasonInterrupted)
			}
		}
	}

	logrus.Errorf("%s failed after %d attempts", agent.name, agent.Attempts)
	return Response{}
}

// failure logs a failed api call and returns the time to wait before the
// next attempt.
func (agent *Agent) failure(attempt int, err error) time.Duration {
	var status *llm.StatusError
	switch {
	case errors.As(err, &status):
		logrus.Errorf("API error for %s: %d - %s", agent.name, status.Code, status.Body)
		return time.Duration(1<<attempt) * time.Second

	case errors.Is(err, llm.ErrTimeout):
		logrus.Warnf("API timeout for %s (attempt %d)", agent.name, attempt)
		return 2 * time.Second

	case errors.Is(err, llm.ErrNoCandidates):
		logrus.Errorf("No valid response from %s", agent.name)
		return time.Second

	default:
		logrus.Errorf("API request error for %s: %v", agent.name, err)
		return 2 * time.Second
	}
}

func (agent *Agent) prompt(position games.Position, legal []string) string {
	hints := legal
	if agent.Hints > 0 && len(hints) > agent.Hints {
		hints = hints[:agent.Hints]
	}

	var prompt strings.Builder

	fmt.Fprintf(&prompt, "You are an expert chess player playing as %s pieces.\n", agent.color)
	fmt.Fprintf(&prompt, "Your opponent plays as %s pieces.\n\n", agent.color.Other())

	prompt.WriteString("CRITICAL INSTRUCTIONS:\n")
	prompt.WriteString("1. You must respond with ONLY a valid UCI move notation (e.g., e2e4, g1f3, e1g1, a7a8q)\n")
	prompt.WriteString("2. Do NOT include any explanations, comments, or extra text\n")
	prompt.WriteString("3. Do NOT use algebraic notation (like Nf3) - use UCI format only\n")
	prompt.WriteString("4. Your response must be exactly one move like: e2e4\n")
	prompt.WriteString("5. Make sure your move is legal in the current position\n\n")

	fmt.Fprintf(&prompt, "Current chess position (FEN): %s\n\n", position.FEN())
	fmt.Fprintf(&prompt, "Visual board:\n%s\n\n", position.String())
	fmt.Fprintf(&prompt, "It's %s's turn. Legal moves: %s\n\n", agent.color, strings.Join(hints, ", "))
	prompt.WriteString("Your move (UCI format only):")

	return prompt.String()
}
