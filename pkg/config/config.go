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

// Package config loads the configuration of referee from its config file,
// the environment, and a .env file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"laptudirm.com/x/referee/pkg/llm"
	"laptudirm.com/x/referee/pkg/match"
	"laptudirm.com/x/referee/pkg/quota"
)

var ErrMissingCredential = errors.New("config: missing api key")

// Config is the complete configuration of a match.
type Config struct {
	// Generation api used by agent seats. An empty Model or BaseURL
	// selects the provider's default.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base-url"`

	Match match.Config `yaml:"match"`
	Quota quota.Config `yaml:"quota"`

	// Output is the directory the snapshots and the final position are
	// written to. Archive is the path of the match archive, and is
	// disabled if set to "off".
	Output  string `yaml:"output"`
	Archive string `yaml:"archive"`

	Credentials Credentials `yaml:"-"`
}

// Credentials are only ever read from the environment.
type Credentials struct {
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Provider: llm.ProviderGemini,

		Match: match.DefaultConfig(),
		Quota: quota.Config{
			PerMinute: quota.DefaultPerMinute,
			PerDay:    quota.DefaultPerDay,
			Grace:     quota.DefaultGrace,
		},

		Output: ".",
	}
}

// Options tells Load where to look for configuration.
type Options struct {
	// File is the yaml config file. A missing file is only an error if
	// Required is set.
	File     string
	Required bool

	// DotEnv is the .env file loaded into the environment. Variables
	// which are already set are not overridden.
	DotEnv string
}

// Load reads the configuration: defaults, then the config file, then the
// credentials from the environment.
func Load(opts Options) (Config, error) {
	config := Default()

	if opts.File != "" {
		file, err := os.ReadFile(opts.File)
		switch {
		case err == nil:
			decoder := yaml.NewDecoder(bytes.NewReader(file))
			decoder.KnownFields(true)
			if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("config: %s: %w", opts.File, err)
			}

			logrus.Debugf("Loaded configuration from %s", opts.File)

		case errors.Is(err, fs.ErrNotExist) && !opts.Required:
			logrus.Tracef("No configuration file at %s", opts.File)

		default:
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	if opts.DotEnv != "" {
		if err := godotenv.Load(opts.DotEnv); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: %s: %w", opts.DotEnv, err)
			}
		} else {
			logrus.Debugf("Loaded environment from %s", opts.DotEnv)
		}
	}

	if err := env.Parse(&config.Credentials); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	return config, nil
}

// Validate reports every problem with the configuration at once.
func (config Config) Validate() error {
	var problems []error

	switch strings.ToLower(config.Provider) {
	case llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		problems = append(problems, fmt.Errorf("unknown provider %q", config.Provider))
	}

	if config.Match.MaxMoves <= 0 {
		problems = append(problems, fmt.Errorf("max-moves must be positive, got %d", config.Match.MaxMoves))
	}

	if config.Match.MaxErrors <= 0 {
		problems = append(problems, fmt.Errorf("max-errors must be positive, got %d", config.Match.MaxErrors))
	}

	for _, delay := range []struct {
		name  string
		value time.Duration
	}{
		{"retry-delay", config.Match.RetryDelay},
		{"invalid-delay", config.Match.InvalidDelay},
		{"auto-pace", config.Match.AutoPace},
		{"agent-pace", config.Match.AgentPace},
		{"quota grace", config.Quota.Grace},
	} {
		if delay.value < 0 {
			problems = append(problems, fmt.Errorf("%s must not be negative", delay.name))
		}
	}

	if config.Quota.PerMinute <= 0 {
		problems = append(problems, fmt.Errorf("quota per-minute must be positive, got %d", config.Quota.PerMinute))
	}

	if config.Quota.PerDay <= 0 {
		problems = append(problems, fmt.Errorf("quota per-day must be positive, got %d", config.Quota.PerDay))
	}

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("config: invalid configuration: %w", errors.Join(problems...))
}

// APIKey returns the credential of the configured provider.
func (config Config) APIKey() string {
	if strings.EqualFold(config.Provider, llm.ProviderOpenAI) {
		return config.Credentials.OpenAIAPIKey
	}

	return config.Credentials.GoogleAPIKey
}

// KeyVariable is the environment variable the provider's key is read from.
func (config Config) KeyVariable() string {
	if strings.EqualFold(config.Provider, llm.ProviderOpenAI) {
		return "OPENAI_API_KEY"
	}

	return "GOOGLE_API_KEY"
}

// RequireCredential fails if an agent seat is going to be played and the
// provider's api key is not set.
func (config Config) RequireCredential(needsAgent bool) error {
	if !needsAgent || strings.TrimSpace(config.APIKey()) != "" {
		return nil
	}

	return fmt.Errorf("%w: set %s in the environment or in a .env file", ErrMissingCredential, config.KeyVariable())
}
