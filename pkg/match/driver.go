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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/referee/pkg/internal/util"
	"laptudirm.com/x/referee/pkg/match/games"
	"laptudirm.com/x/referee/pkg/player"
)

const rule = "------------------------------------------------------------"

// Config holds the limits and delays of a Driver.
type Config struct {
	MaxMoves  int `yaml:"max-moves"`
	MaxErrors int `yaml:"max-errors"`

	RetryDelay   time.Duration `yaml:"retry-delay"`
	InvalidDelay time.Duration `yaml:"invalid-delay"`
	AutoPace     time.Duration `yaml:"auto-pace"`
	AgentPace    time.Duration `yaml:"agent-pace"`
}

// DefaultConfig returns the default driver configuration.
func DefaultConfig() Config {
	return Config{
		MaxMoves:  150,
		MaxErrors: 3,

		RetryDelay:   5 * time.Second,
		InvalidDelay: 3 * time.Second,
		AutoPace:     2 * time.Second,
		AgentPace:    1 * time.Second,
	}
}

// Driver runs the turns of a Game between two players.
type Driver struct {
	Game    *Game
	Players [2]player.Player
	Config  Config

	Out   io.Writer
	Sleep func(context.Context, time.Duration) error
	Now   func() time.Time
}

// NewDriver creates a Driver for the given game. players is indexed by
// the color of the side they play.
func NewDriver(game *Game, players [2]player.Player, config Config, out io.Writer) *Driver {
	return &Driver{
		Game:    game,
		Players: players,
		Config:  config,

		Out:   out,
		Sleep: util.Sleep,
		Now:   time.Now,
	}
}

// Play runs the game until it terminates and reports how it went. Play
// only returns once the game's termination has been recorded.
func (driver *Driver) Play(ctx context.Context) Report {
	game := driver.Game
	start := driver.Now()

	fmt.Fprintf(driver.Out, "Starting %s Chess Game!\n", strings.ToUpper(driver.mode()))
	fmt.Fprintln(driver.Out, "Initial position:")
	fmt.Fprintln(driver.Out, game.Position().String())
	fmt.Fprintln(driver.Out, rule)

	for !game.Termination().Terminated {
		driver.turn(ctx)
	}

	report := driver.report(start)
	if game.Recorder != nil {
		if path, err := game.Recorder.SaveFinal(report.FinalFEN); err != nil {
			logrus.Warnf("Could not save final position: %v", err)
		} else {
			logrus.Infof("Final position saved to %s", path)
		}
	}

	return report
}

// turn runs a single iteration of the game loop. It either plays a move,
// records a failure, or terminates the game.
func (driver *Driver) turn(ctx context.Context) {
	game := driver.Game

	if ctx.Err() != nil {
		driver.terminate(player.ReasonInterrupted)
		return
	}

	if ending, over := game.CheckTerminal(); over {
		driver.terminate(ending.Reason(game.Position().SideToMove().Other()))
		return
	}

	if game.MoveCount() >= driver.Config.MaxMoves {
		driver.terminate(fmt.Sprintf("Maximum moves (%d) reached", driver.Config.MaxMoves))
		return
	}

	seat := driver.Players[game.Position().SideToMove()]
	response := seat.Move(ctx, game.Position())

	switch {
	case response.Terminate:
		driver.terminate(response.Reason)

	case response.Absent():
		count := game.RecordError()
		fmt.Fprintf(driver.Out, "%s failed to provide a move (errors: %d)\n", seat.Name(), count)

		if count >= driver.Config.MaxErrors {
			driver.terminate("Too many consecutive errors from " + seat.Name())
			return
		}

		if seat.Kind() != player.AgentSeat {
			driver.terminate(seat.Name() + " left the game")
			return
		}

		fmt.Fprintln(driver.Out, "Waiting before retry...")
		driver.pause(ctx, driver.Config.RetryDelay)

	default:
		driver.play(ctx, seat, response.Move)
	}
}

func (driver *Driver) play(ctx context.Context, seat player.Player, mov string) {
	game := driver.Game

	if err := game.Apply(mov); err != nil {
		if errors.Is(err, ErrTerminated) {
			return
		}

		if errors.Is(err, ErrIllegalMove) {
			legal := game.Position().LegalMoves()
			if len(legal) > 8 {
				legal = legal[:8]
			}

			fmt.Fprintf(driver.Out, "Illegal move: %s\n", mov)
			fmt.Fprintf(driver.Out, "   Legal moves: %s...\n", strings.Join(legal, ", "))
		}

		count := game.RecordError()
		fmt.Fprintf(driver.Out, "Invalid move from %s: %s (errors: %d)\n", seat.Name(), mov, count)

		if count >= driver.Config.MaxErrors {
			driver.terminate("Too many invalid moves from " + seat.Name())
			return
		}

		if seat.Kind() == player.AgentSeat {
			fmt.Fprintln(driver.Out, "Waiting before retry...")
			driver.pause(ctx, driver.Config.InvalidDelay)
		}

		return
	}

	fmt.Fprintf(driver.Out, "Move %d: %s\n", game.MoveCount(), strings.ToLower(strings.TrimSpace(mov)))
	driver.display()

	switch {
	case driver.allAgents():
		driver.pause(ctx, driver.Config.AutoPace)
	case seat.Kind() == player.AgentSeat:
		driver.pause(ctx, driver.Config.AgentPace)
	}
}

func (driver *Driver) display() {
	game := driver.Game
	position := game.Position()

	fmt.Fprintf(driver.Out, "\nPosition after move %d:\n", game.MoveCount())
	fmt.Fprintf(driver.Out, "%s to move\n", position.SideToMove().Title())
	if game.InCheck() {
		fmt.Fprintln(driver.Out, "CHECK!")
	}

	fmt.Fprintln(driver.Out, position.String())
	fmt.Fprintln(driver.Out, rule)
}

// pause sleeps for d. An interrupt during the sleep terminates the game.
func (driver *Driver) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	if err := driver.Sleep(ctx, d); err != nil {
		driver.terminate(player.ReasonInterrupted)
	}
}

func (driver *Driver) terminate(reason string) {
	if driver.Game.Terminate(reason) {
		fmt.Fprintf(driver.Out, "Game terminating: %s\n", reason)
	}
}

func (driver *Driver) allAgents() bool {
	return driver.Players[games.White].Kind() == player.AgentSeat &&
		driver.Players[games.Black].Kind() == player.AgentSeat
}

// mode names the kinds of the seats, like "ai vs human".
func (driver *Driver) mode() string {
	white := driver.Players[games.White].Kind()
	black := driver.Players[games.Black].Kind()

	// human vs ai is named the same whichever side the human plays
	if white == player.AgentSeat && black == player.HumanSeat {
		white, black = black, white
	}

	return white.String() + " vs " + black.String()
}

func (driver *Driver) report(start time.Time) Report {
	game := driver.Game
	ending, _ := game.CheckTerminal()

	return Report{
		White: driver.Players[games.White].Name(),
		Black: driver.Players[games.Black].Name(),

		Reason:   game.Termination().Reason,
		Ending:   ending,
		Result:   game.Result(),
		Moves:    game.Moves(),
		Duration: driver.Now().Sub(start),

		StartFEN: game.StartFEN(),
		FinalFEN: game.Position().FEN(),
		Board:    game.Position().String(),
	}
}
