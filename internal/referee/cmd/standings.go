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
	"fmt"

	"github.com/spf13/cobra"
)

func Standings() *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Show the ratings of every player in the archive",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			standings, err := store.Standings(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(standings) == 0 {
				fmt.Fprintln(out, "\x1b[31mNo Decided Games.\x1b[0m")
				return nil
			}

			fmt.Fprintln(out, "╔════════════════════════════════════════════════════════════════════╗")
			fmt.Fprintln(out, "║    Name                         Elo Error   Wins Loss Draw   Total ║")
			fmt.Fprintln(out, "╠════════════════════════════════════════════════════════════════════╣")
			for i, standing := range standings {
				_, elo, _ := standing.Elo()
				fmt.Fprintf(out,
					"║ %2d. %-25.25s   %+4.0f %4.0f   %4d %4d %4d   %5d ║\n",
					i+1, standing.Player,
					elo, standing.ErrorBar(),
					standing.Wins, standing.Losses, standing.Draws,
					standing.Games(),
				)
			}
			fmt.Fprintln(out, "╚════════════════════════════════════════════════════════════════════╝")

			return nil
		},
	}
}
