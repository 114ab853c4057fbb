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

// Package archive stores finished matches in a sqlite database.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"laptudirm.com/x/referee/pkg/stats"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS matches (
	match_id     TEXT PRIMARY KEY,
	played_at    INTEGER NOT NULL,
	white        TEXT NOT NULL,
	black        TEXT NOT NULL,
	result       TEXT NOT NULL DEFAULT '*',
	reason       TEXT NOT NULL DEFAULT '',
	moves        TEXT NOT NULL DEFAULT '',
	start_fen    TEXT NOT NULL,
	final_fen    TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_matches_played_at ON matches(played_at);
`

// Record is an archived match. White and Black identify the players, like
// "gemini:gemini-1.5-flash" or "human".
type Record struct {
	ID       string
	PlayedAt time.Time

	White, Black string

	Result string
	Reason string
	Moves  []string

	StartFEN string
	FinalFEN string
	Duration time.Duration
}

// Standing is the record of a single player across the archive.
type Standing struct {
	Player string
	stats.Record
}

// Store is a match archive.
type Store struct {
	db *sql.DB

	Now func() time.Time
}

// Open opens the archive at the given path, creating it if needed.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}

	return &Store{db: db, Now: time.Now}, nil
}

func (store *Store) Close() error {
	return store.db.Close()
}

// Save archives a match. A missing ID or PlayedAt is filled in and the
// stored record is returned.
func (store *Store) Save(ctx context.Context, record Record) (Record, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	if record.PlayedAt.IsZero() {
		record.PlayedAt = store.Now()
	}

	if record.Result == "" {
		record.Result = "*"
	}

	const q = `INSERT INTO matches (match_id, played_at, white, black, result, reason, moves, start_fen, final_fen, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := store.db.ExecContext(ctx, q,
		record.ID,
		record.PlayedAt.UnixMilli(),
		record.White,
		record.Black,
		record.Result,
		record.Reason,
		strings.Join(record.Moves, " "),
		record.StartFEN,
		record.FinalFEN,
		record.Duration.Milliseconds(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("save match: %w", err)
	}

	return record, nil
}

// List returns the most recent matches, newest first. A limit of zero or
// less lists every match.
func (store *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}

	const q = `SELECT match_id, played_at, white, black, result, reason, moves, start_fen, final_fen, duration_ms
FROM matches
ORDER BY played_at DESC, rowid DESC
LIMIT ?`

	rows, err := store.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var playedAt, duration int64
		var moves string
		if err := rows.Scan(&r.ID, &playedAt, &r.White, &r.Black, &r.Result, &r.Reason, &moves, &r.StartFEN, &r.FinalFEN, &duration); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}

		r.PlayedAt = time.UnixMilli(playedAt)
		r.Moves = strings.Fields(moves)
		r.Duration = time.Duration(duration) * time.Millisecond
		records = append(records, r)
	}

	return records, rows.Err()
}

// Standings returns the record of every player with a decided match,
// ordered by points scored.
func (store *Store) Standings(ctx context.Context) ([]Standing, error) {
	const q = `SELECT white, black, result FROM matches WHERE result != '*'`

	rows, err := store.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*stats.Record)
	get := func(player string) *stats.Record {
		if records[player] == nil {
			records[player] = &stats.Record{}
		}

		return records[player]
	}

	for rows.Next() {
		var white, black, result string
		if err := rows.Scan(&white, &black, &result); err != nil {
			return nil, fmt.Errorf("scan standings: %w", err)
		}

		switch result {
		case "1-0":
			get(white).Wins++
			get(black).Losses++
		case "0-1":
			get(white).Losses++
			get(black).Wins++
		case "1/2-1/2":
			get(white).Draws++
			get(black).Draws++
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	standings := make([]Standing, 0, len(records))
	for player, record := range records {
		standings = append(standings, Standing{Player: player, Record: *record})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points() != standings[j].Points() {
			return standings[i].Points() > standings[j].Points()
		}

		return standings[i].Player < standings[j].Player
	})

	return standings, nil
}
