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
	"path/filepath"

	"github.com/spf13/cobra"

	referee "laptudirm.com/x/referee/pkg/common"
	"laptudirm.com/x/referee/pkg/archive"
	"laptudirm.com/x/referee/pkg/config"
)

// archiveOff disables the match archive when used as its path.
const archiveOff = "off"

// loadConfig loads the configuration named by the --config flag, or the
// default configuration file if the flag isn't provided.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	opts := config.Options{
		File:   referee.ConfigFile,
		DotEnv: ".env",
	}

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		opts.File = file
		opts.Required = true
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func archivePath(cfg config.Config) string {
	if cfg.Archive == "" {
		return referee.ArchiveFile
	}

	return cfg.Archive
}

func openArchive(cfg config.Config) (*archive.Store, error) {
	path := archivePath(cfg)
	if path == archiveOff {
		return nil, fmt.Errorf("the match archive is disabled")
	}

	if err := referee.TryMkdir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	return archive.Open(path)
}
