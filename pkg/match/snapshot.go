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
	"os"
	"path/filepath"

	"laptudirm.com/x/referee/pkg/match/games"
)

const (
	SnapshotDir   = "moves"
	FinalFENFile  = "final_position.fen"
	snapshotNames = "move_%03d.svg"
)

// Recorder writes the artifacts of a game to a directory: an svg image of
// the board after every move and the fen of the final position.
type Recorder struct {
	Dir string
}

// NewRecorder creates a Recorder writing into dir.
func NewRecorder(dir string) *Recorder {
	return &Recorder{Dir: dir}
}

// Snapshot writes the board after the nth move and returns its path.
func (recorder *Recorder) Snapshot(n int, fen, last string) (string, error) {
	dir := filepath.Join(recorder.Dir, SnapshotDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf(snapshotNames, n))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := games.RenderSVG(file, fen, last); err != nil {
		_ = file.Close()
		return "", err
	}

	return path, file.Close()
}

// SaveFinal writes the fen of the final position and returns its path.
func (recorder *Recorder) SaveFinal(fen string) (string, error) {
	if recorder.Dir != "" {
		if err := os.MkdirAll(recorder.Dir, 0755); err != nil {
			return "", err
		}
	}

	path := filepath.Join(recorder.Dir, FinalFENFile)
	return path, os.WriteFile(path, []byte(fen), 0644)
}
