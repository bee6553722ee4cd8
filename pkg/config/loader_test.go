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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing config file should succeed")
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		content     string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_config",
			filename: "filemill.yaml",
			content: `
plugin_dir: /opt/filemill/plugins
max_workers: 8
log_level: debug
output: out
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/opt/filemill/plugins", cfg.PluginDir, "plugin dir should match")
				assert.Equal(t, 8, cfg.MaxWorkers, "workers should match")
				assert.Equal(t, "debug", cfg.LogLevel, "log level should match")
				assert.Equal(t, "out", cfg.Output, "output should match")
			},
		},
		{
			name:     "yml_extension",
			filename: "filemill.yml",
			content:  "max_workers: 3\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3, cfg.MaxWorkers, "workers should match")
				assert.Equal(t, DefaultLogLevel, cfg.LogLevel, "log level should default")
			},
		},
		{
			name:     "json_config",
			filename: "filemill.json",
			content:  `{"plugin_dir": "plugins", "max_workers": 2}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "plugins", cfg.PluginDir, "plugin dir should match")
				assert.Equal(t, 2, cfg.MaxWorkers, "workers should match")
			},
		},
		{
			name:     "hcl_config",
			filename: "filemill.hcl",
			content: `
plugin_dir  = "plugins"
max_workers = 4
log_level   = "warn"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "plugins", cfg.PluginDir, "plugin dir should match")
				assert.Equal(t, 4, cfg.MaxWorkers, "workers should match")
				assert.Equal(t, "warn", cfg.LogLevel, "log level should match")
			},
		},
		{
			name:     "filemill_yaml_flavor",
			filename: ".filemill",
			content:  "max_workers: 5\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.MaxWorkers, "workers should match")
			},
		},
		{
			name:     "filemill_hcl_flavor",
			filename: ".filemill",
			content:  "max_workers = 5\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.MaxWorkers, "workers should match")
			},
		},
		{
			name:     "filemill_empty_file_gets_defaults",
			filename: ".filemill",
			content:  "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultLogLevel, cfg.LogLevel, "log level should default")
				assert.NotEmpty(t, cfg.PluginDir, "plugin dir should default")
			},
		},
		{
			name:        "filemill_garbage",
			filename:    ".filemill",
			content:     "{{{ not a config",
			wantErr:     true,
			errContains: "parsing .filemill as YAML or HCL",
		},
		{
			name:        "unknown_yaml_field",
			filename:    "filemill.yaml",
			content:     "max_workerz: 3\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "filemill.json",
			content:     `{"bogus": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unknown_hcl_attribute",
			filename:    "filemill.hcl",
			content:     "bogus = 1\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "filemill.toml",
			content:     "max_workers = 3\n",
			wantErr:     true,
			errContains: `unsupported file extension ".toml"`,
		},
		{
			name:        "invalid_values_rejected",
			filename:    "filemill.yaml",
			content:     "max_workers: -2\n",
			wantErr:     true,
			errContains: "validating config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.filename, tt.content)

			cfg, err := Load(testCtx(t), path)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testCtx(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "Load should fail for a missing file")
	assert.Contains(t, err.Error(), "reading config file", "error should name the read step")
}

func TestFind(t *testing.T) {
	t.Run("empty_dir_finds_nothing", func(t *testing.T) {
		assert.Empty(t, Find(t.TempDir()), "empty dir should yield no config")
	})

	t.Run("dotfile_takes_precedence", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "filemill.yaml", "max_workers: 5\n")
		writeConfig(t, dir, ".filemill", "max_workers: 9\n")
		assert.Equal(t, filepath.Join(dir, ".filemill"), Find(dir), ".filemill should win")
	})

	t.Run("directories_are_skipped", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".filemill"), 0o755))
		writeConfig(t, dir, "filemill.yaml", "max_workers: 5\n")
		assert.Equal(t, filepath.Join(dir, "filemill.yaml"), Find(dir), "directory should not count as config")
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("explicit_path_loads", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "filemill.yaml", "max_workers: 7\n")
		cfg, err := LoadOrDefault(testCtx(t), path)
		require.NoError(t, err, "LoadOrDefault should succeed")
		assert.Equal(t, 7, cfg.MaxWorkers, "workers should come from the file")
	})

	t.Run("explicit_missing_path_fails", func(t *testing.T) {
		_, err := LoadOrDefault(testCtx(t), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err, "explicit missing path should fail")
		assert.Contains(t, err.Error(), "reading config file", "error should name the read step")
	})
}
