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
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"laptudirm.com/x/referee/pkg/match/games"
)

const (
	OrderSequential = "sequential"
	OrderRandom     = "random"
)

var ErrEmptyBook = errors.New("match: opening book has no positions")

// NewBook reads an opening book of one fen or epd position per line. Empty
// lines and lines starting with # are skipped.
func NewBook(name string, strategy string) (*Book, error) {
	file, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	book := Book{strategy: strategy}
	for i, entry := range strings.Split(string(file), "\n") {
		entry = strings.Trim(entry, "\n\r\t ")
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}

		fen, err := games.NormalizeFEN(entry)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, i+1, err)
		}

		book.entries = append(book.entries, fen)
	}

	if len(book.entries) == 0 {
		return nil, ErrEmptyBook
	}

	if strategy == OrderRandom {
		book.Next()
	}

	return &book, nil
}

type Book struct {
	entries  []string
	strategy string
	current  int
}

func (book *Book) Next() {
	switch book.strategy {
	case OrderRandom:
		book.current = rand.Int() % len(book.entries)
	default:
		book.current = (book.current + 1) % len(book.entries)
	}
}

func (book *Book) Current() string {
	return book.entries[book.current]
}

func (book *Book) Len() int {
	return len(book.entries)
}
