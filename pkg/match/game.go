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

// Package match implements a single game between two players: the game
// session which guards the rules and the driver which runs the turns.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/referee/pkg/match/games"
)

var (
	ErrMalformedMove = errors.New("match: malformed move")
	ErrIllegalMove   = errors.New("match: illegal move")
	ErrTerminated    = errors.New("match: game has terminated")
)

// Termination records why a game has ended. Only the first termination
// of a game is ever recorded.
type Termination struct {
	Terminated bool
	Reason     string
}

// Game is a session of chess. It owns the rules oracle and is the only
// thing which mutates it.
type Game struct {
	oracle games.Oracle
	start  string

	history     []string
	errors      int
	termination Termination

	// Recorder, if not nil, is given a snapshot of every accepted move.
	Recorder *Recorder
}

// NewGame starts a new game from the given position.
func NewGame(oracle games.Oracle, fen string) (*Game, error) {
	if err := oracle.Initialize(fen); err != nil {
		return nil, fmt.Errorf("match: initialize position: %w", err)
	}

	return &Game{
		oracle: oracle,
		start:  oracle.FEN(),
	}, nil
}

// Apply validates and plays the given move. The game is not modified if
// an error is returned.
func (game *Game) Apply(mov string) error {
	if game.termination.Terminated {
		return ErrTerminated
	}

	mov = strings.ToLower(strings.TrimSpace(mov))
	if !games.IsMoveToken(mov) {
		return fmt.Errorf("%w: %q", ErrMalformedMove, mov)
	}

	if !game.isLegal(mov) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, mov)
	}

	if err := game.oracle.MakeMove(mov); err != nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, mov)
	}

	game.history = append(game.history, mov)
	game.errors = 0

	if game.Recorder != nil {
		if path, err := game.Recorder.Snapshot(len(game.history), game.oracle.FEN(), mov); err != nil {
			logrus.Warnf("Could not save SVG: %v", err)
		} else {
			logrus.Debugf("Board saved: %s", path)
		}
	}

	return nil
}

func (game *Game) isLegal(mov string) bool {
	for _, legal := range game.oracle.LegalMoves() {
		if legal == mov {
			return true
		}
	}

	return false
}

// CheckTerminal reports the first terminal condition which holds in the
// current position. Conditions are consulted in a fixed order, so that a
// checkmate is never reported as a draw.
func (game *Game) CheckTerminal() (Ending, bool) {
	switch {
	case game.oracle.IsCheckmate():
		return Checkmate, true
	case game.oracle.IsStalemate():
		return Stalemate, true
	case game.oracle.IsInsufficientMaterial():
		return InsufficientMaterial, true
	case game.oracle.IsFivefoldRepetition():
		return FivefoldRepetition, true
	case game.oracle.IsSeventyFiveMoves():
		return SeventyFiveMoves, true
	case game.oracle.CanClaimDraw():
		return ClaimableDraw, true
	default:
		return NoEnding, false
	}
}

// Result returns the result of the game according to the rules. Games
// with no terminal condition are Unfinished.
func (game *Game) Result() Result {
	ending, over := game.CheckTerminal()
	switch {
	case !over:
		return Unfinished
	case ending == Checkmate:
		return WonBy[game.oracle.SideToMove().Other()]
	default:
		return Draw
	}
}

// Terminate ends the game with the given reason. It reports whether this
// call was the one which ended the game.
func (game *Game) Terminate(reason string) bool {
	if game.termination.Terminated {
		return false
	}

	game.termination = Termination{Terminated: true, Reason: reason}
	return true
}

func (game *Game) Termination() Termination {
	return game.termination
}

// Moves returns a copy of the moves played so far.
func (game *Game) Moves() []string {
	return append([]string(nil), game.history...)
}

// MoveCount is the number of moves played so far.
func (game *Game) MoveCount() int {
	return len(game.history)
}

// Errors returns the number of consecutive errors since the last move.
func (game *Game) Errors() int {
	return game.errors
}

// RecordError increments the consecutive error counter and returns it.
func (game *Game) RecordError() int {
	game.errors++
	return game.errors
}

// Position returns a read-only view of the current position.
func (game *Game) Position() games.Position {
	return view{game.oracle}
}

// view hides the mutating methods of an oracle from players.
type view struct {
	oracle games.Oracle
}

func (v view) SideToMove() games.Color { return v.oracle.SideToMove() }
func (v view) LegalMoves() []string    { return v.oracle.LegalMoves() }
func (v view) FEN() string             { return v.oracle.FEN() }
func (v view) String() string          { return v.oracle.String() }

func (game *Game) InCheck() bool {
	return game.oracle.InCheck()
}

// StartFEN is the position the game was started from.
func (game *Game) StartFEN() string {
	return game.start
}
