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
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/tomoncle/cornerstone/utils"
)

var supportedTypes = []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"}

// Open validates cfg, applies DB_* environment overrides, configures
// logging and returns a connected Manager.
func Open(ctx context.Context, cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	conn := cfg.ConnectionConfig
	if !slices.Contains(supportedTypes, conn.Type) {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", conn.Type, supportedTypes)
	}
	overrideFromEnv(&conn)

	if cfg.LogConfig.ConsoleFormat != "" {
		utils.ConfigureConsoleLogFormat(cfg.LogConfig.ConsoleFormat)
	}
	if cfg.LogConfig.Level != "" {
		utils.ConfigureLogLevel(cfg.LogConfig.Level)
	}

	manager := NewManager(&conn)
	if err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return manager, nil
}

// overrideFromEnv overrides configuration values from environment variables.
func overrideFromEnv(cfg *ConnectionConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DSN = dsn
	}
	if enableQueryLog := os.Getenv("DB_ENABLE_QUERY_LOG"); enableQueryLog != "" {
		cfg.EnableQueryLog = enableQueryLog == "true"
	}
	if slow := os.Getenv("DB_SLOW_QUERY_MS"); slow != "" {
		if val, err := strconv.Atoi(slow); err == nil {
			cfg.SlowQueryTime = time.Duration(val) * time.Millisecond
		}
	}
}
