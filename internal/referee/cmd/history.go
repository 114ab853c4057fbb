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
	"strings"

	"github.com/spf13/cobra"
)

func History() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recently played games",
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

			limit, _ := cmd.Flags().GetInt("limit")
			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "\x1b[31mNo Games Played.\x1b[0m")
				return nil
			}

			fmt.Fprint(out, "\u001B[32mRecent Games\u001B[0m:\n\n")
			for _, record := range records {
				id, _, _ := strings.Cut(record.ID, "-")
				fmt.Fprintf(out,
					"- \x1b[34m%s\x1b[0m %s  %s vs %s  \x1b[33m%s\x1b[0m  %d moves  %s\n",
					id, record.PlayedAt.Format("2006-01-02 15:04"),
					record.White, record.Black, record.Result,
					len(record.Moves), record.Reason,
				)
			}

			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 10, "Number of games to list, 0 for all")

	return cmd
}
