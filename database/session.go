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
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// ErrTransactionNotActive is returned when committing or rolling back a
// transaction that already finished.
var ErrTransactionNotActive = errors.New("transaction is not active")

// SessionFactory hands out one fresh session per call. Sessions are never
// shared between concurrent callers.
type SessionFactory interface {
	OpenSession(ctx context.Context) (*Session, error)
}

// Session owns a single pooled connection until Close is called.
type Session struct {
	conn   bun.Conn
	closed bool
}

// NewSession wraps an already acquired connection.
func NewSession(conn bun.Conn) *Session {
	return &Session{conn: conn}
}

// Conn returns the underlying bun connection.
func (s *Session) Conn() bun.Conn { return s.conn }

// DB returns the session's connection as a bun.IDB.
func (s *Session) DB() bun.IDB { return &s.conn }

// NewSelect starts a select query bound to this session's connection.
func (s *Session) NewSelect() *bun.SelectQuery { return s.conn.NewSelect() }

// Begin opens a transaction on the session's connection.
func (s *Session) Begin(ctx context.Context) (*Transaction, error) {
	if s.closed {
		return nil, fmt.Errorf("begin transaction: %w", sql.ErrConnDone)
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Transaction{tx: tx, state: TxActive}, nil
}

// Close returns the connection to the pool. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

// TxState is the lifecycle state of a Transaction.
type TxState int

const (
	TxIdle TxState = iota
	TxActive
	TxCommitted
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxActive:
		return "active"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// Transaction is a unit of work: Idle -> Active -> Committed | RolledBack.
type Transaction struct {
	tx    bun.Tx
	state TxState
}

// Tx exposes the bun transaction for issuing statements.
func (t *Transaction) Tx() bun.Tx { return t.tx }

// DB returns the transaction as a bun.IDB.
func (t *Transaction) DB() bun.IDB { return &t.tx }

// State returns the current lifecycle state.
func (t *Transaction) State() TxState { return t.state }

// IsActive reports whether the transaction can still be committed or rolled back.
func (t *Transaction) IsActive() bool { return t.state == TxActive }

// Commit commits the transaction. A failed commit leaves the transaction
// rolled back: database/sql releases it whatever the driver answered.
func (t *Transaction) Commit() error {
	if !t.IsActive() {
		return ErrTransactionNotActive
	}
	if err := t.tx.Commit(); err != nil {
		t.state = TxRolledBack
		return err
	}
	t.state = TxCommitted
	return nil
}

// Rollback aborts the transaction.
func (t *Transaction) Rollback() error {
	if !t.IsActive() {
		return ErrTransactionNotActive
	}
	t.state = TxRolledBack
	return t.tx.Rollback()
}

// BunSessions is a SessionFactory over an existing *bun.DB.
type BunSessions struct {
	db *bun.DB
}

// NewBunSessions returns a SessionFactory drawing connections from db.
func NewBunSessions(db *bun.DB) *BunSessions {
	return &BunSessions{db: db}
}

// DB returns the wrapped database handle.
func (f *BunSessions) DB() *bun.DB { return f.db }

// OpenSession acquires a dedicated connection from the pool.
func (f *BunSessions) OpenSession(ctx context.Context) (*Session, error) {
	if f.db == nil {
		return nil, fmt.Errorf("database not connected")
	}
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return NewSession(conn), nil
}
