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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/referee/pkg/archive"
	"laptudirm.com/x/referee/pkg/config"
	"laptudirm.com/x/referee/pkg/llm"
	"laptudirm.com/x/referee/pkg/match"
	"laptudirm.com/x/referee/pkg/match/games"
	"laptudirm.com/x/referee/pkg/player"
	"laptudirm.com/x/referee/pkg/quota"
)

func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game of chess",
		Args:  cobra.ExactArgs(0),
		Long: heredoc.Doc(`play starts a game of chess between two seats. The seats
			are chosen with --mode, or interactively if it isn't given.

			Agent seats need an api key for the chosen provider, read
			from GOOGLE_API_KEY or OPENAI_API_KEY in the environment or
			in a .env file in the current directory.

			An svg image of the board is saved to moves/ after every
			move and the final position is saved to final_position.fen,
			both under the --output directory. Finished games are added
			to the match archive, see referee history and standings.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := applyFlags(cmd, &cfg); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			console := player.NewConsole(cmd.InOrStdin())

			banner(out, cfg)

			seats, err := chooseSeats(ctx, cmd, console, out)
			if err != nil {
				if ctx.Err() != nil {
					fmt.Fprintln(out, "\nExiting...")
					return nil
				}

				return err
			}

			if err := cfg.RequireCredential(seats.hasAgent()); err != nil {
				return err
			}

			fen, err := startPosition(cmd)
			if err != nil {
				return err
			}

			players, err := seats.players(cfg, console, out)
			if err != nil {
				return err
			}

			oracle, err := games.NewChessOracle(fen)
			if err != nil {
				return err
			}

			game, err := match.NewGame(oracle, fen)
			if err != nil {
				return err
			}
			game.Recorder = match.NewRecorder(cfg.Output)

			report := match.NewDriver(game, players, cfg.Match, out).Play(ctx)
			report.Print(out)

			finished := time.Now()

			if pgn, _ := cmd.Flags().GetString("pgn"); pgn != "" {
				if err := match.WritePGN(pgn, report, "referee "+seats.String(), finished); err != nil {
					logrus.Warnf("Could not save pgn: %v", err)
				} else {
					logrus.Infof("Game saved to %s", pgn)
				}
			}

			if archivePath(cfg) != archiveOff {
				saveToArchive(cfg, seats, report, finished)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("mode", "m", "", "Game mode: ai-vs-ai, human-vs-ai, or human-vs-human")
	flags.String("color", "white", "Color of the human in a human-vs-ai game")
	flags.String("provider", "", "Language model api: gemini or openai")
	flags.String("model", "", "Language model to play with")
	flags.String("base-url", "", "Base url of the language model api")
	flags.Int("max-moves", 0, "Maximum number of moves before the game is stopped")
	flags.String("fen", "", "Position to start the game from")
	flags.String("openings", "", "Opening book to pick the starting position from")
	flags.String("opening-order", match.OrderRandom, "Opening to play from the book: random, or sequential for the first entry")
	flags.String("pgn", "", "File to save the game to in pgn format")
	flags.StringP("output", "o", "", "Directory to save the board snapshots to")
	flags.Bool("no-archive", false, "Don't add the game to the match archive")

	return cmd
}

// applyFlags overrides the loaded configuration with the flags which were
// set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("provider") {
		cfg.Provider, _ = flags.GetString("provider")
	}

	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}

	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}

	if flags.Changed("max-moves") {
		cfg.Match.MaxMoves, _ = flags.GetInt("max-moves")
	}

	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}

	if noArchive, _ := flags.GetBool("no-archive"); noArchive {
		cfg.Archive = archiveOff
	}

	if flags.Changed("fen") && flags.Changed("openings") {
		return errors.New("--fen and --openings can't be used together")
	}

	switch order, _ := flags.GetString("opening-order"); order {
	case match.OrderRandom, match.OrderSequential:
	default:
		return fmt.Errorf("unknown opening order %q", order)
	}

	return nil
}

func banner(out io.Writer, cfg config.Config) {
	fmt.Fprintln(out, "\x1b[32mReferee\x1b[0m: chess between language models and humans")
	fmt.Fprintf(out, "Rate limiting: %d calls/minute, %d/day\n", cfg.Quota.PerMinute, cfg.Quota.PerDay)
	fmt.Fprintln(out, "Press Ctrl+C anytime to stop")
	fmt.Fprintln(out, strings.Repeat("-", 60))
}

// startPosition returns the fen the game should be started from.
func startPosition(cmd *cobra.Command) (string, error) {
	flags := cmd.Flags()

	if fen, _ := flags.GetString("fen"); fen != "" {
		return games.NormalizeFEN(fen)
	}

	if openings, _ := flags.GetString("openings"); openings != "" {
		order, _ := flags.GetString("opening-order")
		book, err := match.NewBook(openings, order)
		if err != nil {
			return "", err
		}

		logrus.Debugf("Picked opening %s from %d positions", book.Current(), book.Len())
		return book.Current(), nil
	}

	return games.StartFEN, nil
}

func saveToArchive(cfg config.Config, seats seating, report match.Report, finished time.Time) {
	store, err := openArchive(cfg)
	if err != nil {
		logrus.Warnf("Could not open the match archive: %v", err)
		return
	}
	defer store.Close()

	identity := func(kind player.Kind) string {
		if kind == player.HumanSeat {
			return "human"
		}

		model := cfg.Model
		if model == "" {
			model = llm.DefaultModel(cfg.Provider)
		}

		return strings.ToLower(cfg.Provider) + ":" + model
	}

	record, err := store.Save(context.Background(), archive.Record{
		PlayedAt: finished,

		White: identity(seats[games.White]),
		Black: identity(seats[games.Black]),

		Result: report.Result.String(),
		Reason: report.Reason,
		Moves:  report.Moves,

		StartFEN: report.StartFEN,
		FinalFEN: report.FinalFEN,
		Duration: report.Duration,
	})
	if err != nil {
		logrus.Warnf("Could not archive the game: %v", err)
		return
	}

	logrus.Debugf("Game archived as %s in %s", record.ID, archivePath(cfg))
}

// seating holds the kind of player in each seat, indexed by color.
type seating [2]player.Kind

var modes = map[string]seating{
	"ai-vs-ai":       {player.AgentSeat, player.AgentSeat},
	"human-vs-human": {player.HumanSeat, player.HumanSeat},
}

func (seats seating) hasAgent() bool {
	return seats[games.White] == player.AgentSeat || seats[games.Black] == player.AgentSeat
}

func (seats seating) String() string {
	return strings.ToLower(seats[games.White].String() + " vs " + seats[games.Black].String())
}

// players creates the players of the seats. All agents share one quota
// governor, since they call the same api.
func (seats seating) players(cfg config.Config, in player.LineReader, out io.Writer) ([2]player.Player, error) {
	var players [2]player.Player
	var generator llm.Generator
	var governor *quota.Governor

	for color, kind := range seats {
		color := games.Color(color)

		switch kind {
		case player.HumanSeat:
			players[color] = player.NewHuman(color, in, out)

		case player.AgentSeat:
			if generator == nil {
				var err error
				generator, err = llm.New(llm.Options{
					Provider: cfg.Provider,
					BaseURL:  cfg.BaseURL,
					Model:    cfg.Model,
					APIKey:   cfg.APIKey(),
				})
				if err != nil {
					return players, err
				}

				governor = quota.New(cfg.Quota)
			}

			players[color] = player.NewAgent(color, generator, governor)
		}
	}

	return players, nil
}

// chooseSeats picks the seating from the --mode flag, or asks for it on
// the console.
func chooseSeats(ctx context.Context, cmd *cobra.Command, in player.LineReader, out io.Writer) (seating, error) {
	mode, _ := cmd.Flags().GetString("mode")
	color, _ := cmd.Flags().GetString("color")

	if mode == "" {
		return selectMode(ctx, in, out)
	}

	switch mode {
	case "human-vs-ai", "ai-vs-human":
		return humanVsAI(color)
	default:
		seats, found := modes[mode]
		if !found {
			return seating{}, fmt.Errorf("unknown game mode %q", mode)
		}

		return seats, nil
	}
}

func humanVsAI(color string) (seating, error) {
	switch strings.ToLower(color) {
	case "white":
		return seating{player.HumanSeat, player.AgentSeat}, nil
	case "black":
		return seating{player.AgentSeat, player.HumanSeat}, nil
	default:
		return seating{}, fmt.Errorf("unknown color %q", color)
	}
}

// selectMode asks for the game mode on the console.
func selectMode(ctx context.Context, in player.LineReader, out io.Writer) (seating, error) {
	fmt.Fprintln(out, "\nSelect Game Mode:")
	fmt.Fprintln(out, "1. AI vs AI")
	fmt.Fprintln(out, "2. Human vs AI")
	fmt.Fprintln(out, "3. Human vs Human")

	for {
		fmt.Fprint(out, "\nEnter your choice (1-3): ")
		choice, err := in.ReadLine(ctx)
		if err != nil {
			return seating{}, fmt.Errorf("no game mode selected: %w", err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			return modes["ai-vs-ai"], nil

		case "2":
			fmt.Fprintln(out, "\nChoose your color:")
			fmt.Fprintln(out, "1. White (you go first)")
			fmt.Fprintln(out, "2. Black (AI goes first)")
			fmt.Fprint(out, "Enter your choice (1-2): ")

			color, err := in.ReadLine(ctx)
			if err != nil {
				return seating{}, fmt.Errorf("no color selected: %w", err)
			}

			switch strings.TrimSpace(color) {
			case "1":
				return humanVsAI("white")
			case "2":
				return humanVsAI("black")
			default:
				fmt.Fprintln(out, "Invalid choice. Please enter 1 or 2.")
			}

		case "3":
			return modes["human-vs-human"], nil

		default:
			fmt.Fprintln(out, "Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}
