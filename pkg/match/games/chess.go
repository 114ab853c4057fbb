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

import (
	"errors"
	"strings"

	"laptudirm.com/x/mess/pkg/board"
	"laptudirm.com/x/mess/pkg/board/bitboard"
	"laptudirm.com/x/mess/pkg/board/move"
	"laptudirm.com/x/mess/pkg/board/piece"
	"laptudirm.com/x/mess/pkg/board/square"
	"laptudirm.com/x/mess/pkg/formats/fen"
)

// StartFEN is the standard starting position of chess.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrIllegalMove = errors.New("oracle: illegal move")

// ChessOracle is an Oracle for standard chess backed by mess.
type ChessOracle struct {
	board *board.Board
	moves []move.Move

	// positions counts the occurrences of each position, keyed by the
	// placement, side, castling and en passant fields of its fen.
	positions map[string]int
}

var _ Oracle = (*ChessOracle)(nil)

// NewChessOracle returns an oracle initialized to the given position.
func NewChessOracle(fenstr string) (*ChessOracle, error) {
	var oracle ChessOracle
	if err := oracle.Initialize(fenstr); err != nil {
		return nil, err
	}

	return &oracle, nil
}

func (oracle *ChessOracle) Initialize(fenstr string) error {
	fenstr, err := NormalizeFEN(fenstr)
	if err != nil {
		return err
	}

	oracle.board = board.New(board.FEN(fen.FromString(fenstr)))
	oracle.moves = oracle.board.GenerateMoves(false)

	oracle.positions = make(map[string]int)
	oracle.positions[oracle.key()]++
	return nil
}

func (oracle *ChessOracle) SideToMove() Color {
	if oracle.board.SideToMove == piece.White {
		return White
	}

	return Black
}

func (oracle *ChessOracle) LegalMoves() []string {
	moves := make([]string, len(oracle.moves))
	for i, mov := range oracle.moves {
		moves[i] = strings.ToLower(mov.String())
	}

	return moves
}

func (oracle *ChessOracle) MakeMove(mov_str string) error {
	found, index := false, 0
	for i, mov := range oracle.moves {
		if strings.EqualFold(mov.String(), mov_str) {
			found = true
			index = i
			break
		}
	}

	if !found {
		return ErrIllegalMove
	}

	oracle.board.MakeMove(oracle.moves[index])
	oracle.moves = oracle.board.GenerateMoves(false)
	oracle.positions[oracle.key()]++
	return nil
}

func (oracle *ChessOracle) FEN() string {
	fen := [6]string(oracle.board.FEN())
	return strings.Join(fen[:], " ")
}

// String returns a human readable drawing of the board.
func (oracle *ChessOracle) String() string {
	return Render(oracle.FEN())
}

func (oracle *ChessOracle) InCheck() bool {
	return oracle.board.IsInCheck(oracle.board.SideToMove)
}

func (oracle *ChessOracle) IsCheckmate() bool {
	return len(oracle.moves) == 0 && oracle.InCheck()
}

func (oracle *ChessOracle) IsStalemate() bool {
	return len(oracle.moves) == 0 && !oracle.InCheck()
}

// IsInsufficientMaterial reports whether neither side can ever checkmate.
// mess only knows about lone kings and a single minor piece, so positions
// where every bishop stands on the same colour are checked here.
func (oracle *ChessOracle) IsInsufficientMaterial() bool {
	if oracle.board.IsInsufficientMaterial() {
		return true
	}

	return oracle.cannotMate(piece.White) && oracle.cannotMate(piece.Black)
}

// cannotMate reports whether the given side lacks the material to mate
// whatever the other side does.
func (oracle *ChessOracle) cannotMate(c piece.Color) bool {
	b := oracle.board
	us, them := b.ColorBBs[c], b.ColorBBs[c.Other()]

	if us&(b.PieceBBs[piece.Pawn]|b.PieceBBs[piece.Rook]|b.PieceBBs[piece.Queen]) != bitboard.Empty {
		return false
	}

	if us&b.PieceBBs[piece.Knight] != bitboard.Empty {
		// a lone knight can only mate with the help of enemy pieces
		return us.Count() <= 2 &&
			them&^(b.PieceBBs[piece.King]|b.PieceBBs[piece.Queen]) == bitboard.Empty
	}

	if bishops := b.PieceBBs[piece.Bishop]; us&bishops != bitboard.Empty {
		sameColor := bishops&lightSquares == bitboard.Empty || bishops&^lightSquares == bitboard.Empty
		return sameColor && b.PieceBBs[piece.Pawn] == bitboard.Empty && b.PieceBBs[piece.Knight] == bitboard.Empty
	}

	return true
}

var lightSquares = func() bitboard.Board {
	var light bitboard.Board
	for s := square.Square(0); s < square.N; s++ {
		// a8 is a light square
		if (int(s.File())+int(s.Rank()))%2 == 0 {
			light |= bitboard.Square(s)
		}
	}

	return light
}()

func (oracle *ChessOracle) IsFivefoldRepetition() bool {
	return oracle.repetitions() >= 5
}

// IsSeventyFiveMoves reports whether 75 moves by each side have been played
// without a capture or a pawn move.
func (oracle *ChessOracle) IsSeventyFiveMoves() bool {
	return oracle.board.DrawClock >= 150
}

// CanClaimDraw reports whether either player could claim a draw by the
// threefold repetition or the fifty-move rule.
func (oracle *ChessOracle) CanClaimDraw() bool {
	if oracle.repetitions() >= 3 || oracle.board.DrawClock >= 100 {
		return true
	}

	// a draw can also be claimed by announcing a move which would repeat
	// the position a third time or complete the fifty moves
	for _, mov := range oracle.moves {
		if oracle.claimableAfter(mov) {
			return true
		}
	}

	return false
}

func (oracle *ChessOracle) claimableAfter(mov move.Move) bool {
	oracle.board.MakeMove(mov)
	defer oracle.board.UnmakeMove()

	if oracle.positions[oracle.key()] >= 2 {
		return true
	}

	return oracle.board.DrawClock >= 100 && len(oracle.board.GenerateMoves(false)) > 0
}

func (oracle *ChessOracle) repetitions() int {
	return oracle.positions[oracle.key()]
}

func (oracle *ChessOracle) key() string {
	fen := [6]string(oracle.board.FEN())
	return strings.Join(fen[:4], " ")
}
