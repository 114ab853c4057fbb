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

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElo(t *testing.T) {
	lower, elo, upper := Record{}.Elo()
	assert.Zero(t, lower)
	assert.Zero(t, elo)
	assert.Zero(t, upper)

	even := Record{Wins: 10, Draws: 10, Losses: 10}
	lower, elo, upper = even.Elo()
	assert.InDelta(t, 0, elo, 1e-9)
	assert.Less(t, lower, elo)
	assert.Greater(t, upper, elo)
	assert.InDelta(t, -lower, upper, 1e-9)

	// a score of 75% is about +191 elo
	_, elo, _ = Record{Wins: 30, Draws: 0, Losses: 10}.Elo()
	assert.InDelta(t, 190.85, elo, 0.01)

	_, elo, _ = Record{Wins: 5}.Elo()
	assert.Zero(t, elo)
}

func TestRecord(t *testing.T) {
	record := Record{Wins: 3, Draws: 3, Losses: 1}
	assert.Equal(t, 7, record.Games())
	assert.Equal(t, 4.5, record.Points())
	assert.Greater(t, record.ErrorBar(), 0.0)

	lower, elo, upper := record.Elo()
	bar := record.ErrorBar()
	assert.GreaterOrEqual(t, bar, upper-elo)
	assert.GreaterOrEqual(t, bar, elo-lower)
	assert.True(t, bar == upper-elo || bar == elo-lower)
}
