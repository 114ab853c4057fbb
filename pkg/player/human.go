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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/referee/pkg/match/games"
)

// DefaultShown is the number of legal moves shown before a human is
// prompted for a move.
const DefaultShown = 12

// LineReader reads lines of input. ReadLine returns io.EOF once the
// input has ended.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// Human is a seat played by a person at the console.
type Human struct {
	color games.Color
	name  string

	In  LineReader
	Out io.Writer

	Shown int
}

// NewHuman creates a Human playing the given color.
func NewHuman(color games.Color, in LineReader, out io.Writer) *Human {
	return &Human{
		color: color,
		name:  SeatName(HumanSeat, color),

		In:  in,
		Out: out,

		Shown: DefaultShown,
	}
}

func (human *Human) Name() string { return human.name }
func (human *Human) Kind() Kind   { return HumanSeat }

func (human *Human) Move(ctx context.Context, position games.Position) Response {
	legal := position.LegalMoves()

	shown := legal
	if len(shown) > human.Shown {
		shown = shown[:human.Shown]
	}

	fmt.Fprintf(human.Out, "\n%s, it's your turn!\n", human.name)
	fmt.Fprintf(human.Out, "Legal moves: %s\n", strings.Join(shown, ", "))
	if len(legal) > len(shown) {
		fmt.Fprintf(human.Out, "... and %d more moves\n", len(legal)-len(shown))
	}

	for {
		fmt.Fprintln(human.Out, "\nEnter your move in UCI format (e.g., e2e4, g1f3):")
		fmt.Fprintln(human.Out, "Or type 'help' for move format help, 'legal' to see all legal moves, 'quit' to exit")
		fmt.Fprint(human.Out, "Your move: ")

		line, err := human.In.ReadLine(ctx)
		switch {
		case ctx.Err() != nil:
			fmt.Fprintln(human.Out, "\nGame interrupted by user")
			return Terminate(ReasonInterrupted)

		case err != nil:
			if !errors.Is(err, io.EOF) {
				logrus.Warnf("Reading input: %v", err)
			}

			fmt.Fprintln(human.Out, "\nInput ended")
			return Terminate(ReasonInputEnded)
		}

		input := strings.ToLower(strings.TrimSpace(line))
		switch {
		case input == "quit":
			return Terminate(ReasonQuit)

		case input == "help":
			fmt.Fprint(human.Out, helpText)

		case input == "legal":
			human.showLegal(legal)

		case input == "":
			fmt.Fprintln(human.Out, "Please enter a move!")

		case !games.IsMoveToken(input):
			fmt.Fprintf(human.Out, "Invalid move format: %s\n", input)
			fmt.Fprintln(human.Out, "Tip: Use UCI format like 'e2e4' or 'g1f3'")

		case !contains(legal, input):
			fmt.Fprintf(human.Out, "Illegal move: %s\n", input)
			fmt.Fprintln(human.Out, "Tip: Make sure the move is legal in the current position")

		default:
			fmt.Fprintf(human.Out, "%s plays: %s\n", human.name, input)
			return Response{Move: input}
		}
	}
}

var helpText = heredoc.Doc(`

	UCI Move Format Help:
	   - Normal move: e2e4 (from e2 to e4)
	   - Knight move: g1f3 (knight from g1 to f3)
	   - Castling: e1g1 (kingside) or e1c1 (queenside)
	   - Pawn promotion: a7a8q (promote to queen)
	     q=queen, r=rook, b=bishop, n=knight
	   - En passant: e5d6 (just like normal capture)
`)

func (human *Human) showLegal(legal []string) {
	fmt.Fprintf(human.Out, "\nAll %d legal moves:\n", len(legal))
	for i, mov := range legal {
		if i%8 == 0 {
			fmt.Fprintln(human.Out)
		}

		fmt.Fprintf(human.Out, "%-6s ", mov)
	}
	fmt.Fprint(human.Out, "\n\n")
}

// Console is a LineReader over an io.Reader. Lines are read by a separate
// goroutine so that a read can be abandoned when its context is done.
type Console struct {
	reader *bufio.Reader
	lines  chan string
	err    error
}

// NewConsole starts reading lines from r.
func NewConsole(r io.Reader) *Console {
	console := &Console{
		reader: bufio.NewReader(r),
		lines:  make(chan string),
	}

	go func() {
		for {
			line, err := console.reader.ReadString('\n')
			if line = strings.TrimRight(line, "\r\n"); line != "" || err == nil {
				console.lines <- line
			}

			if err != nil {
				console.err = err
				close(console.lines)
				return
			}
		}
	}()

	return console
}

// ReadLine returns the next line of input without its line ending.
func (console *Console) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-console.lines:
		if !ok {
			return "", console.err
		}

		return line, nil
	}
}
