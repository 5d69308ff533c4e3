/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables recognised by LoadConfig,
// e.g. CORNERSTONE_CONNECTION_CONFIG_HOST.
const EnvPrefix = "CORNERSTONE"

// LoadConfig reads a configuration file (yaml, json or toml, chosen by
// extension) and applies CORNERSTONE_* environment overrides on top of
// DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("connection_config.type", defaults.ConnectionConfig.Type)
	v.SetDefault("connection_config.host", defaults.ConnectionConfig.Host)
	v.SetDefault("connection_config.port", defaults.ConnectionConfig.Port)
	v.SetDefault("connection_config.username", defaults.ConnectionConfig.Username)
	v.SetDefault("connection_config.password", defaults.ConnectionConfig.Password)
	v.SetDefault("connection_config.dbname", defaults.ConnectionConfig.DBName)
	v.SetDefault("connection_config.dsn", defaults.ConnectionConfig.DSN)
	v.SetDefault("connection_config.connect_timeout", defaults.ConnectionConfig.ConnectTimeout)
	v.SetDefault("connection_config.slow_query_time", defaults.ConnectionConfig.SlowQueryTime)
	v.SetDefault("log_config.level", defaults.LogConfig.Level)
	v.SetDefault("log_config.console_format", defaults.LogConfig.ConsoleFormat)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ReadYAML loads a Config from a YAML file without environment overrides.
func ReadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// WriteYAML writes the configuration to outputPath, creating directories as needed.
func (c *Config) WriteYAML(outputPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
