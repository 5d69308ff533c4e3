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
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// Manager owns the connection pool for one configured database and hands
// out sessions drawn from it.
type Manager struct {
	config *ConnectionConfig
	db     *bun.DB
	sqlDB  *sql.DB
	logger Logger
	mu     sync.RWMutex
}

var _ SessionFactory = (*Manager)(nil)

// NewManager returns a Manager for config. If config is nil,
// DefaultConnectionConfig is used.
func NewManager(config *ConnectionConfig) *Manager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &Manager{
		config: config,
		logger: GetLogger(),
	}
}

// Connect opens the pool and verifies it with a ping.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return nil
	}

	sqlDB, db, err := m.createConnection()
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, m.config.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctxTimeout); err != nil {
		_ = db.Close()
		return fmt.Errorf("database connection test failed: %w", err)
	}

	m.sqlDB, m.db = sqlDB, db
	m.logger.Info("Database connected successfully:", "type", m.config.Type, "host", m.config.Host, "dbname", m.config.DBName)
	return nil
}

func (m *Manager) createConnection() (*sql.DB, *bun.DB, error) {
	if m.config.ConnectTimeout <= 0 {
		m.config.ConnectTimeout = 30 * time.Second
	}

	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)
	switch m.config.Type {
	case "mysql":
		sqlDB, err = sql.Open("mysql", m.mysqlDSN())
		if err == nil {
			db = bun.NewDB(sqlDB, mysqldialect.New())
		}
	case "postgres", "postgresql":
		sqlDB, err = sql.Open("postgres", m.postgresDSN())
		if err == nil {
			db = bun.NewDB(sqlDB, pgdialect.New())
		}
	case "sqlite", "sqlite3":
		sqlDB, err = sql.Open(sqliteshim.ShimName, m.sqliteDSN())
		if err == nil {
			db = bun.NewDB(sqlDB, sqlitedialect.New())
		}
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", m.config.Type)
	}
	if err != nil {
		return nil, nil, err
	}

	InstallHooks(db, m.config, m.logger)
	return sqlDB, db, nil
}

func (m *Manager) mysqlDSN() string {
	if m.config.DSN != "" {
		return m.config.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		m.config.Username,
		m.config.Password,
		m.config.Host,
		m.config.Port,
		m.config.DBName,
		m.config.ConnectTimeout,
		m.config.ReadTimeout,
		m.config.WriteTimeout,
	)
}

func (m *Manager) postgresDSN() string {
	if m.config.DSN != "" {
		return m.config.DSN
	}
	sslMode := m.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		m.config.Username,
		m.config.Password,
		m.config.Host,
		m.config.Port,
		m.config.DBName,
		sslMode,
		int(m.config.ConnectTimeout.Seconds()),
	)
}

func (m *Manager) sqliteDSN() string {
	switch {
	case m.config.DSN != "":
		return m.config.DSN
	case m.config.DBName == ":memory:":
		return "file::memory:?cache=shared"
	default:
		return fmt.Sprintf("%s.db", m.config.DBName)
	}
}

// QueryLogEnv switches the coloured QueryHook on at runtime when query
// logging is disabled in the configuration.
const QueryLogEnv = "CORNERSTONE_SQL_LOG"

// InstallHooks attaches the query hooks enabled by config to db.
func InstallHooks(db *bun.DB, config *ConnectionConfig, logger Logger) {
	if config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	} else {
		db.AddQueryHook(NewQueryHook(nil, QueryLogEnv, false, false))
	}
	if config.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryLogHook{
			slowTime: config.SlowQueryTime,
			logger:   logger,
		})
	}
	if config.EnableTracing {
		db.AddQueryHook(NewTracingHook(config.Type))
	}
	if config.EnableMetrics {
		db.AddQueryHook(NewMetricsHook(config.Type))
	}
}

// Disconnect closes the pool.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	m.sqlDB = nil
	if err != nil {
		m.logger.Error("Failed to close database connection", "error", err)
	} else {
		m.logger.Info("Database connection closed")
	}
	return err
}

// Ping checks that the database is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	db := m.DB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	return db.PingContext(ctx)
}

// DB returns the bun handle, or nil before Connect.
func (m *Manager) DB() *bun.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// OpenSession acquires a dedicated connection for one call.
func (m *Manager) OpenSession(ctx context.Context) (*Session, error) {
	return NewBunSessions(m.DB()).OpenSession(ctx)
}

// Stats reports pool usage; InUse drops back to zero once every session is closed.
func (m *Manager) Stats() *DBStats {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()

	if sqlDB == nil {
		return &DBStats{}
	}
	return StatsOf(sqlDB)
}

// StatsOf converts database/sql pool statistics.
func StatsOf(sqlDB *sql.DB) *DBStats {
	stats := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns: stats.MaxOpenConnections,
		OpenConns:    stats.OpenConnections,
		InUse:        stats.InUse,
		Idle:         stats.Idle,
		WaitCount:    stats.WaitCount,
		WaitDuration: stats.WaitDuration,
	}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(logger Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

type slowQueryLogHook struct {
	slowTime time.Duration
	logger   Logger
}

func (h *slowQueryLogHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryLogHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.slowTime {
		h.logger.Warn("Database slow query detected",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}
