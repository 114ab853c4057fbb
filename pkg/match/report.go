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
	"fmt"
	"io"
	"strings"
	"time"
)

// Report summarizes a finished game.
type Report struct {
	White, Black string

	Reason   string
	Ending   Ending
	Result   Result
	Moves    []string
	Duration time.Duration

	StartFEN string
	FinalFEN string
	Board    string
}

// Print writes the final statistics of the game to w.
func (report Report) Print(w io.Writer) {
	fmt.Fprintln(w, "\nGAME OVER")
	fmt.Fprintln(w, "Final Statistics:")
	fmt.Fprintf(w, "   - Total moves: %d\n", len(report.Moves))
	fmt.Fprintf(w, "   - Duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "   - Reason: %s\n", report.Reason)
	fmt.Fprintf(w, "   - Move history: %s\n", strings.Join(report.Moves, " "))

	switch report.Result {
	case WhiteWins:
		fmt.Fprintf(w, "\x1b[32mWinner\x1b[0m: White (%s)\n", report.White)
	case BlackWins:
		fmt.Fprintf(w, "\x1b[32mWinner\x1b[0m: Black (%s)\n", report.Black)
	case Draw:
		fmt.Fprintf(w, "\x1b[33mResult\x1b[0m: Draw (%s)\n", report.Result)
	}

	fmt.Fprintln(w, "\nFinal position:")
	fmt.Fprintln(w, report.Board)
}
