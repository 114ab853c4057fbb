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
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/notnil/chess"
	"github.com/notnil/chess/image"
)

// highlight is the color used to mark the squares of the last move.
var highlight = color.RGBA{255, 255, 0, 1}

// NormalizeFEN validates the given fen string and returns it with all six
// fields present. Four field (epd) positions, including ones that carry
// trailing opcodes, get a zero draw clock and a full move number of one.
func NormalizeFEN(fenstr string) (string, error) {
	fields := strings.Fields(fenstr)
	if len(fields) < 4 {
		return "", fmt.Errorf("invalid fen %q: expected at least 4 fields", fenstr)
	}

	if len(fields) != 6 || !isNumber(fields[4]) || !isNumber(fields[5]) {
		fields = append(fields[:4:4], "0", "1")
	}

	normalized := strings.Join(fields, " ")
	if _, err := chess.FEN(normalized); err != nil {
		return "", fmt.Errorf("invalid fen %q: %w", fenstr, err)
	}

	return normalized, nil
}

// Render draws the position described by fenstr as text. The fen itself
// is returned if it can't be parsed.
func Render(fenstr string) string {
	game, err := gameFrom(fenstr)
	if err != nil {
		return fenstr
	}

	return game.Position().Board().Draw()
}

// RenderSVG writes an svg image of the position to w, marking the origin
// and target squares of last if it is a valid move token.
func RenderSVG(w io.Writer, fenstr, last string) error {
	game, err := gameFrom(fenstr)
	if err != nil {
		return err
	}

	board := game.Position().Board()
	if !IsMoveToken(last) {
		return image.SVG(w, board)
	}

	return image.SVG(w, board, image.MarkSquares(highlight, square(last[0:2]), square(last[2:4])))
}

// PGN replays moves from the start position and returns the game in the
// portable game notation, with the given tag pairs in order.
func PGN(startFEN string, moves []string, tags [][2]string) (string, error) {
	game, err := gameFrom(startFEN)
	if err != nil {
		return "", err
	}

	for _, tag := range tags {
		game.AddTagPair(tag[0], tag[1])
	}

	if startFEN != StartFEN {
		game.AddTagPair("SetUp", "1")
		game.AddTagPair("FEN", startFEN)
	}

	for i, mov := range moves {
		decoded, err := chess.UCINotation{}.Decode(game.Position(), mov)
		if err != nil {
			return "", fmt.Errorf("pgn: move %d (%s): %w", i+1, mov, err)
		}

		if err := game.Move(decoded); err != nil {
			return "", fmt.Errorf("pgn: move %d (%s): %w", i+1, mov, err)
		}
	}

	return game.String(), nil
}

func gameFrom(fenstr string) (*chess.Game, error) {
	option, err := chess.FEN(fenstr)
	if err != nil {
		return nil, err
	}

	return chess.NewGame(option, chess.UseNotation(chess.AlgebraicNotation{})), nil
}

// square converts a square name like e4 into a chess.Square.
func square(name string) chess.Square {
	file := int(name[0] - 'a')
	rank := int(name[1] - '1')
	return chess.Square(rank*8 + file)
}

func isNumber(field string) bool {
	if field == "" {
		return false
	}

	for _, r := range field {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
