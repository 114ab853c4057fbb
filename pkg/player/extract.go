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

package player

import (
	"regexp"
	"strings"

	"laptudirm.com/x/referee/pkg/match/games"
)

var movePattern = regexp.MustCompile(`\b[a-h][1-8][a-h][1-8][qrbn]?\b`)

// Extract finds the first move token in raw which is a member of legal.
// If no token matches, the first word of raw is tried as a move.
func Extract(raw string, legal []string) (string, bool) {
	content := strings.ToLower(strings.TrimSpace(raw))

	for _, candidate := range movePattern.FindAllString(content, -1) {
		if contains(legal, candidate) {
			return candidate, true
		}
	}

	if fields := strings.Fields(content); len(fields) > 0 {
		if first := fields[0]; games.IsMoveToken(first) && contains(legal, first) {
			return first, true
		}
	}

	return "", false
}
