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
	"time"
)

// ConnectionConfig describes how to reach a database.
type ConnectionConfig struct {
	Type           string        `json:"type" yaml:"type" mapstructure:"type"` // postgres、mysql、sqlite
	Host           string        `json:"host" yaml:"host" mapstructure:"host"`
	Port           int           `json:"port" yaml:"port" mapstructure:"port"`
	Username       string        `json:"username" yaml:"username" mapstructure:"username"`
	Password       string        `json:"password" yaml:"password" mapstructure:"password"`
	DBName         string        `json:"dbname" yaml:"dbname" mapstructure:"dbname"`
	SSLMode        string        `json:"sslmode" yaml:"sslmode" mapstructure:"sslmode"`
	DSN            string        `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout" mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	EnableQueryLog bool          `json:"enable_query_log" yaml:"enable_query_log" mapstructure:"enable_query_log"`
	SlowQueryTime  time.Duration `json:"slow_query_time" yaml:"slow_query_time" mapstructure:"slow_query_time"`
	EnableTracing  bool          `json:"enable_tracing" yaml:"enable_tracing" mapstructure:"enable_tracing"`
	EnableMetrics  bool          `json:"enable_metrics" yaml:"enable_metrics" mapstructure:"enable_metrics"`
}

// LogConfig controls the named loggers created through utils.NewLogger.
type LogConfig struct {
	Level         string `json:"level" yaml:"level" mapstructure:"level"`
	ConsoleFormat string `json:"console_format" yaml:"console_format" mapstructure:"console_format"` // text or json
}

// Config aggregates connection and logging settings.
type Config struct {
	ConnectionConfig ConnectionConfig `json:"connection_config" yaml:"connection_config" mapstructure:"connection_config"`
	LogConfig        LogConfig        `json:"log_config" yaml:"log_config" mapstructure:"log_config"`
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:           "sqlite",
		DBName:         "cornerstone",
		ConnectTimeout: time.Second * 10,
		ReadTimeout:    time.Second * 30,
		WriteTimeout:   time.Second * 30,
		SlowQueryTime:  time.Second * 2,
	}
}

// DefaultConfig returns a Config built from DefaultConnectionConfig.
func DefaultConfig() *Config {
	return &Config{
		ConnectionConfig: *DefaultConnectionConfig(),
		LogConfig:        LogConfig{Level: "info", ConsoleFormat: "text"},
	}
}

// DBStats mirrors database/sql pool stats.
type DBStats struct {
	MaxOpenConns int           `json:"max_open_conns"`
	OpenConns    int           `json:"open_conns"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	WaitCount    int64         `json:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration"`
}
