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
	"time"

	"laptudirm.com/x/referee/pkg/match/games"
)

// PGN renders the game described by report in the portable game notation.
func (report Report) PGN(event string, date time.Time) (string, error) {
	tags := [][2]string{
		{"Event", event},
		{"Site", "referee"},
		{"Date", date.Format("2006.01.02")},
		{"White", report.White},
		{"Black", report.Black},
		{"Result", report.Result.String()},
		{"Termination", report.Reason},
	}

	return games.PGN(report.StartFEN, report.Moves, tags)
}

// WritePGN writes the pgn of report to the named file.
func WritePGN(name string, report Report, event string, date time.Time) error {
	pgn, err := report.PGN(event, date)
	if err != nil {
		return err
	}

	return os.WriteFile(name, []byte(pgn), 0644)
}
