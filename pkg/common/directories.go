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

package referee

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

var (
	// ConfigDirectory holds the user's configuration file.
	ConfigDirectory string = filepath.Join(xdg.ConfigHome, "referee")

	// DataDirectory holds the match archive.
	DataDirectory string = filepath.Join(xdg.DataHome, "referee")

	ConfigFile  string = filepath.Join(ConfigDirectory, "config.yaml")
	ArchiveFile string = filepath.Join(DataDirectory, "archive.db")
)
