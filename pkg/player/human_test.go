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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptudirm.com/x/referee/pkg/match/games"
)

type scriptedInput struct {
	lines []string
	err   error
}

func (input *scriptedInput) ReadLine(context.Context) (string, error) {
	if len(input.lines) == 0 {
		if input.err != nil {
			return "", input.err
		}

		return "", io.EOF
	}

	line := input.lines[0]
	input.lines = input.lines[1:]
	return line, nil
}

func TestHumanMove(t *testing.T) {
	var out bytes.Buffer
	human := NewHuman(games.White, &scriptedInput{lines: []string{"", "help", "legal", "e2e5", "z9z9", " E2E4 "}}, &out)

	response := human.Move(context.Background(), startPosition(t))
	assert.Equal(t, Response{Move: "e2e4"}, response)

	output := out.String()
	assert.Contains(t, output, "Human_White, it's your turn!")
	assert.Contains(t, output, "... and 8 more moves")
	assert.Contains(t, output, "Please enter a move!")
	assert.Contains(t, output, "UCI Move Format Help:")
	assert.Contains(t, output, "All 20 legal moves:")
	assert.Contains(t, output, "Illegal move: e2e5")
	assert.Contains(t, output, "Invalid move format: z9z9")
	assert.Contains(t, output, "Human_White plays: e2e4")
}

func TestHumanTerminations(t *testing.T) {
	tests := []struct {
		name  string
		input *scriptedInput
		want  Response
	}{
		{"quit", &scriptedInput{lines: []string{"QUIT"}}, Terminate(ReasonQuit)},
		{"end of input", &scriptedInput{}, Terminate(ReasonInputEnded)},
		{"read error", &scriptedInput{err: errors.New("broken pipe")}, Terminate(ReasonInputEnded)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			human := NewHuman(games.Black, test.input, io.Discard)
			assert.Equal(t, test.want, human.Move(context.Background(), startPosition(t)))
		})
	}
}

func TestHumanInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	human := NewHuman(games.White, NewConsole(strings.NewReader("e2e4\n")), io.Discard)
	assert.Equal(t, Terminate(ReasonInterrupted), human.Move(ctx, startPosition(t)))
}

func TestConsoleReadLine(t *testing.T) {
	console := NewConsole(strings.NewReader("e2e4\r\n\nquit"))

	for _, want := range []string{"e2e4", "", "quit"} {
		line, err := console.ReadLine(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	_, err := console.ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsoleReadLineHonoursContext(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	console := NewConsole(reader)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := console.ReadLine(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
