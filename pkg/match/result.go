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

package match

import "laptudirm.com/x/referee/pkg/match/games"

// Result represents the result of a single match.
type Result int

const (
	BlackWins Result = -1
	Draw      Result = 0
	WhiteWins Result = +1

	// Unfinished is the result of a match which was stopped before the
	// rules decided it.
	Unfinished Result = 2
)

// WonBy maps the winning side to the match's Result.
var WonBy = [2]Result{
	games.White: WhiteWins,
	games.Black: BlackWins,
}

// String returns a string representation of the given Result.
func (result Result) String() string {
	switch result {
	case WhiteWins:
		return "1-0"
	case Draw:
		return "1/2-1/2"
	case BlackWins:
		return "0-1"
	default:
		return "*"
	}
}

// Ending is a terminal condition of the rules.
type Ending uint8

const (
	NoEnding Ending = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	FivefoldRepetition
	SeventyFiveMoves
	ClaimableDraw
)

func (ending Ending) String() string {
	switch ending {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case FivefoldRepetition:
		return "fivefold repetition"
	case SeventyFiveMoves:
		return "seventy-five move rule"
	case ClaimableDraw:
		return "claimable draw"
	default:
		return "none"
	}
}

// Reason returns the termination reason for the ending. winner is only
// used for checkmates.
func (ending Ending) Reason(winner games.Color) string {
	switch ending {
	case Checkmate:
		return "CHECKMATE! " + winner.Title() + " wins!"
	case Stalemate:
		return "STALEMATE! Draw."
	case InsufficientMaterial:
		return "DRAW! Insufficient material."
	case FivefoldRepetition:
		return "DRAW! Fivefold repetition."
	case SeventyFiveMoves:
		return "DRAW! Seventy-five move rule."
	case ClaimableDraw:
		return "DRAW! Draw can be claimed."
	default:
		return ""
	}
}
