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

// Package player implements the seats of a match: remote language model
// agents and humans at the console.
package player

import (
	"context"

	"laptudirm.com/x/referee/pkg/match/games"
)

const (
	ReasonInterrupted = "User interrupted"
	ReasonQuit        = "Human player quit"
	ReasonInputEnded  = "Input ended"
)

// Kind is the kind of a seat.
type Kind uint8

const (
	AgentSeat Kind = iota
	HumanSeat
)

func (kind Kind) String() string {
	switch kind {
	case AgentSeat:
		return "AI"
	case HumanSeat:
		return "Human"
	default:
		return "Unknown"
	}
}

// SeatName returns the display name of a seat, like AI_White.
func SeatName(kind Kind, color games.Color) string {
	return kind.String() + "_" + color.Title()
}

// Response is the answer of a seat which has been asked for a move. A
// Response with neither a move nor a termination is an absent move.
type Response struct {
	Move string

	Terminate bool
	Reason    string
}

// Absent reports whether the seat failed to provide a move.
func (response Response) Absent() bool {
	return !response.Terminate && response.Move == ""
}

// Terminate returns a Response which asks for the session to be ended.
func Terminate(reason string) Response {
	return Response{Terminate: true, Reason: reason}
}

// Player is a seat which can be asked for moves.
type Player interface {
	Name() string
	Kind() Kind

	// Move blocks until the seat has decided on a move for the given
	// position. Cancelling ctx makes it return a termination with the
	// reason ReasonInterrupted.
	Move(ctx context.Context, position games.Position) Response
}

func contains(moves []string, mov string) bool {
	for _, legal := range moves {
		if legal == mov {
			return true
		}
	}

	return false
}
