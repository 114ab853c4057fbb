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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv removes key from the environment for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeFile(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "GOOGLE_API_KEY")
	unsetenv(t, "OPENAI_API_KEY")

	config, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)

	assert.Equal(t, Default(), config)
	assert.Equal(t, 150, config.Match.MaxMoves)
	assert.Equal(t, 3, config.Match.MaxErrors)
	assert.Equal(t, 6, config.Quota.PerMinute)
	assert.Equal(t, 800, config.Quota.PerDay)
	assert.NoError(t, config.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
provider: openai
model: gpt-test
match:
  max-moves: 40
  retry-delay: 10s
quota:
  per-minute: 2
`)

	config, err := Load(Options{File: path, Required: true})
	require.NoError(t, err)

	assert.Equal(t, "openai", config.Provider)
	assert.Equal(t, "gpt-test", config.Model)
	assert.Equal(t, 40, config.Match.MaxMoves)
	assert.Equal(t, 10*time.Second, config.Match.RetryDelay)
	assert.Equal(t, 3*time.Second, config.Match.InvalidDelay)
	assert.Equal(t, 2, config.Quota.PerMinute)
	assert.Equal(t, 800, config.Quota.PerDay)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml"), Required: true})
	assert.Error(t, err)

	_, err = Load(Options{File: writeFile(t, "config.yaml", "colour: blue\n")})
	assert.Error(t, err, "unknown fields are rejected")
}

func TestLoadCredentials(t *testing.T) {
	unsetenv(t, "GOOGLE_API_KEY")
	t.Setenv("OPENAI_API_KEY", "from-env")

	dotenv := writeFile(t, ".env", "GOOGLE_API_KEY=from-dotenv\nOPENAI_API_KEY=ignored\n")

	config, err := Load(Options{DotEnv: dotenv})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", config.Credentials.GoogleAPIKey)
	assert.Equal(t, "from-env", config.Credentials.OpenAIAPIKey)

	_, err = Load(Options{DotEnv: filepath.Join(t.TempDir(), ".env")})
	assert.NoError(t, err, "a missing .env file is not an error")
}

func TestValidate(t *testing.T) {
	config := Default()
	config.Provider = "carrier-pigeon"
	config.Match.MaxMoves = 0
	config.Match.AgentPace = -time.Second
	config.Quota.PerDay = 0

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "carrier-pigeon"`)
	assert.Contains(t, err.Error(), "max-moves must be positive")
	assert.Contains(t, err.Error(), "agent-pace must not be negative")
	assert.Contains(t, err.Error(), "quota per-day must be positive")
}

func TestRequireCredential(t *testing.T) {
	config := Default()
	assert.NoError(t, config.RequireCredential(false))

	err := config.RequireCredential(true)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")

	config.Credentials.GoogleAPIKey = "key"
	assert.NoError(t, config.RequireCredential(true))

	config.Provider = "openai"
	err = config.RequireCredential(true)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}
