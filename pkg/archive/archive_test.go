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

package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptudirm.com/x/referee/pkg/stats"
)

func openStore(t *testing.T) *Store {
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return first }

	saved, err := store.Save(ctx, Record{
		White:    "gemini:gemini-1.5-flash",
		Black:    "human",
		Result:   "0-1",
		Reason:   "CHECKMATE! Black wins!",
		Moves:    []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		StartFEN: "start",
		FinalFEN: "final",
		Duration: 1500 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, first, saved.PlayedAt)

	_, err = store.Save(ctx, Record{
		PlayedAt: first.Add(time.Hour),
		White:    "human",
		Black:    "human",
		Reason:   "Human player quit",
	})
	require.NoError(t, err)

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Human player quit", records[0].Reason)
	assert.Equal(t, "*", records[0].Result)
	assert.Empty(t, records[0].Moves)

	assert.Equal(t, saved.ID, records[1].ID)
	assert.Equal(t, saved.Moves, records[1].Moves)
	assert.Equal(t, saved.Duration, records[1].Duration)
	assert.True(t, saved.PlayedAt.Equal(records[1].PlayedAt))

	records, err = store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSaveRejectsDuplicateID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, Record{ID: "same", White: "a", Black: "b"})
	require.NoError(t, err)

	_, err = store.Save(ctx, Record{ID: "same", White: "a", Black: "b"})
	assert.Error(t, err)
}

func TestStandings(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, r := range []Record{
		{White: "gemini", Black: "openai", Result: "1-0"},
		{White: "openai", Black: "gemini", Result: "1/2-1/2"},
		{White: "human", Black: "gemini", Result: "0-1"},
		{White: "human", Black: "openai", Result: "*"},
	} {
		_, err := store.Save(ctx, r)
		require.NoError(t, err)
	}

	standings, err := store.Standings(ctx)
	require.NoError(t, err)

	assert.Equal(t, []Standing{
		{Player: "gemini", Record: stats.Record{Wins: 2, Draws: 1}},
		{Player: "openai", Record: stats.Record{Draws: 1, Losses: 1}},
		{Player: "human", Record: stats.Record{Losses: 1}},
	}, standings)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Save(context.Background(), Record{White: "a", Black: "b"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
