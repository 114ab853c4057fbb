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

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBook(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "book.epd")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestBookSequential(t *testing.T) {
	path := writeBook(t, "# openings\n"+
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1\n"+
		"\n"+
		"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq -\r\n")

	book, err := NewBook(path, OrderSequential)
	require.NoError(t, err)
	assert.Equal(t, 2, book.Len())

	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", book.Current())
	book.Next()
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq - 0 1", book.Current())
	book.Next()
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", book.Current())
}

func TestBookRandom(t *testing.T) {
	path := writeBook(t, "8/8/8/8/8/8/8/K6k w - - 0 1\n")

	book, err := NewBook(path, OrderRandom)
	require.NoError(t, err)
	assert.Equal(t, "8/8/8/8/8/8/8/K6k w - - 0 1", book.Current())
}

func TestBookErrors(t *testing.T) {
	_, err := NewBook(writeBook(t, "# nothing\n\n"), OrderSequential)
	assert.ErrorIs(t, err, ErrEmptyBook)

	_, err = NewBook(writeBook(t, "not a position\n"), OrderSequential)
	assert.Error(t, err)

	_, err = NewBook(filepath.Join(t.TempDir(), "missing.epd"), OrderSequential)
	assert.Error(t, err)
}
