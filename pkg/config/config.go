// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🪵 DefaultLogLevel is used when no log_level is configured.
const DefaultLogLevel = "info"

// 📚 Config represents the complete tool configuration. Every field is
// optional; Validate fills defaults for anything left empty.
type Config struct {
	PluginDir  string `json:"plugin_dir,omitempty" yaml:"plugin_dir,omitempty" hcl:"plugin_dir,optional"`
	MaxWorkers int    `json:"max_workers,omitempty" yaml:"max_workers,omitempty" hcl:"max_workers,optional"`
	LogLevel   string `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
	Output     string `json:"output,omitempty" yaml:"output,omitempty" hcl:"output,optional"`
}

// 🎯 Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		PluginDir: defaultPluginDir(),
		LogLevel:  DefaultLogLevel,
	}
}

// 🔍 Validate checks the configuration and normalizes it in place,
// filling defaults for empty fields.
func Validate(ctx context.Context, cfg *Config) error {
	logger := zerolog.Ctx(ctx)

	if cfg.MaxWorkers < 0 {
		return errors.Errorf("max_workers must not be negative, got %d", cfg.MaxWorkers)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Errorf("parsing log_level: %w", err)
	}

	if cfg.PluginDir == "" {
		cfg.PluginDir = defaultPluginDir()
		logger.Debug().Str("plugin_dir", cfg.PluginDir).Msg("using default plugin directory")
	}
	cfg.PluginDir = filepath.Clean(cfg.PluginDir)

	if cfg.Output != "" {
		cfg.Output = filepath.Clean(cfg.Output)
	}

	return nil
}

// 🪜 Level returns the configured zerolog level, falling back to info
// when the level is unset or unparseable.
func (cfg *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// 📝 String returns a one-line summary of the configuration.
func (cfg *Config) String() string {
	workers := "auto"
	if cfg.MaxWorkers > 0 {
		workers = strconv.Itoa(cfg.MaxWorkers)
	}
	s := fmt.Sprintf("plugins=%s workers=%s log=%s", cfg.PluginDir, workers, cfg.LogLevel)
	if cfg.Output != "" {
		s += " output=" + cfg.Output
	}
	return s
}

// defaultPluginDir resolves to ~/.filemill/plugins, or ./plugins when
// the home directory cannot be determined.
func defaultPluginDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "plugins"
	}
	return filepath.Join(home, ".filemill", "plugins")
}
