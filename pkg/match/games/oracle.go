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

package games

import "regexp"

// Color represents the side to move in a position.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite side.
func (color Color) Other() Color {
	return color ^ 1
}

func (color Color) String() string {
	if color == White {
		return "white"
	}

	return "black"
}

// Title returns the capitalized name of the side, for display.
func (color Color) Title() string {
	if color == White {
		return "White"
	}

	return "Black"
}

// Position is the read-only view of a game that players are given when
// they are asked for a move.
type Position interface {
	SideToMove() Color
	LegalMoves() []string
	FEN() string
	String() string
}

// Oracle is the rules engine behind a game. It validates and applies moves
// and answers the terminal condition queries the session asks for.
type Oracle interface {
	Position

	Initialize(fen string) error
	MakeMove(mov string) error

	InCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	IsInsufficientMaterial() bool
	IsFivefoldRepetition() bool
	IsSeventyFiveMoves() bool
	CanClaimDraw() bool
}

var movePattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// IsMoveToken reports whether mov is a syntactically valid move in the
// long algebraic (uci) notation, like e2e4 or a7a8q.
func IsMoveToken(mov string) bool {
	return movePattern.MatchString(mov)
}
