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

// Package stats computes ratings from match results.
package stats

import "math"

// Record is the win/draw/loss record of a player.
type Record struct {
	Wins   int
	Draws  int
	Losses int
}

// Games is the number of decided games in the record.
func (record Record) Games() int {
	return record.Wins + record.Draws + record.Losses
}

// Points is the number of points scored, a draw being worth half a win.
func (record Record) Points() float64 {
	return float64(record.Wins) + float64(record.Draws)/2
}

// Elo returns the likely elo difference of the player against the field
// along with the bounds of its 95% confidence interval.
func (record Record) Elo() (lower float64, elo float64, upper float64) {
	N := float64(record.Games())

	if N == 0 {
		return 0, 0, 0
	}

	w := float64(record.Wins) / N   // measured win probability
	d := float64(record.Draws) / N  // measured draw probability
	l := float64(record.Losses) / N // measured loss probability

	// empirical mean score
	mu := w + d/2

	// standard error of the mean score
	sigma := math.Sqrt(w*math.Pow(1-mu, 2)+d*math.Pow(0.5-mu, 2)+l*math.Pow(0-mu, 2)) / math.Sqrt(N)

	lower = scoreToElo(mu + phiInv(0.025)*sigma)
	upper = scoreToElo(mu + phiInv(0.975)*sigma)
	return lower, scoreToElo(mu), upper
}

// ErrorBar returns the distance from the Elo estimate to the farther end
// of its confidence interval.
func (record Record) ErrorBar() float64 {
	lower, elo, upper := record.Elo()
	return math.Abs(math.Max(upper-elo, elo-lower))
}

// scoreToElo converts an expected score to an elo difference. Scores of
// zero or one have no finite elo and are reported as zero.
func scoreToElo(x float64) float64 {
	switch {
	case x <= 0, x >= 1:
		return 0

	default:
		return -400 * math.Log10(1/x-1)
	}
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
