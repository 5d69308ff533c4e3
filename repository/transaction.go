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

package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/tomoncle/cornerstone/database"
)

const (
	opCreate  = "create"
	opUpdate  = "update"
	opDelete  = "delete"
	opPerform = "perform"
)

func (c *baseControllerImpl[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	err := c.performTransaction(ctx, opCreate, entity, func(ctx context.Context, tx bun.IDB, entity *T) error {
		_, err := tx.NewInsert().Model(entity).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (c *baseControllerImpl[T]) Update(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	var merged *T
	err := c.performTransaction(ctx, opUpdate, entity, func(ctx context.Context, tx bun.IDB, entity *T) error {
		key := c.metadata.PrimaryKey(entity)
		exists := false
		if key != nil {
			var err error
			exists, err = tx.NewSelect().Model((*T)(nil)).Where("?TablePKs = ?", key).Exists(ctx)
			if err != nil {
				return err
			}
		}
		if exists {
			if _, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx); err != nil {
				return err
			}
		} else {
			if _, err := tx.NewInsert().Model(entity).Exec(ctx); err != nil {
				return err
			}
			key = c.metadata.PrimaryKey(entity)
		}
		stored, err := loadByKey[T](ctx, tx, key)
		if err != nil {
			return err
		}
		merged = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (c *baseControllerImpl[T]) Delete(ctx context.Context, entity *T) error {
	if entity == nil {
		return ErrNilEntity
	}
	return c.performTransaction(ctx, opDelete, entity, func(ctx context.Context, tx bun.IDB, entity *T) error {
		key := c.metadata.PrimaryKey(entity)
		if key == nil {
			return nil
		}
		stored, err := loadByKey[T](ctx, tx, key)
		if err != nil || stored == nil {
			return err
		}
		_, err = tx.NewDelete().Model(stored).WherePK().Exec(ctx)
		return err
	})
}

func (c *baseControllerImpl[T]) PerformTransaction(ctx context.Context, entity *T, body TransactionBody[T]) error {
	if body == nil {
		return fmt.Errorf("%s: transaction body must not be nil", c.entity)
	}
	return c.performTransaction(ctx, opPerform, entity, body)
}

// performTransaction runs body in a fresh session and transaction. Errors
// from body or commit are returned unchanged after rolling back, a panic
// rolls back and is re-raised, and the session is always closed.
func (c *baseControllerImpl[T]) performTransaction(ctx context.Context, operation string, entity *T, body TransactionBody[T]) error {
	sess, err := c.sessions.OpenSession(ctx)
	if err != nil {
		database.RecordTransaction(c.entity, operation, database.OutcomeFailed)
		return err
	}
	defer c.closeSession(sess)

	tx, err := sess.Begin(ctx)
	if err != nil {
		database.RecordTransaction(c.entity, operation, database.OutcomeFailed)
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			c.rollback(tx, operation, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := body(ctx, tx.DB(), entity); err != nil {
		c.rollback(tx, operation, err)
		return err
	}
	if err := tx.Commit(); err != nil {
		c.rollback(tx, operation, err)
		return err
	}
	database.RecordTransaction(c.entity, operation, database.OutcomeCommitted)
	return nil
}

func (c *baseControllerImpl[T]) rollback(tx *database.Transaction, operation string, cause error) {
	database.RecordTransaction(c.entity, operation, database.OutcomeRolledBack)
	if !tx.IsActive() {
		c.logger.Debug("Transaction already finished", "entity", c.entity, "operation", operation, "error", cause)
		return
	}
	c.logger.Debug("Rolling back transaction", "entity", c.entity, "operation", operation, "error", cause)
	if err := tx.Rollback(); err != nil {
		c.logger.Warn("Failed to roll back transaction", "entity", c.entity, "operation", operation, "error", err)
	}
}

func (c *baseControllerImpl[T]) closeSession(sess *database.Session) {
	if err := sess.Close(); err != nil {
		c.logger.Warn("Failed to close session", "entity", c.entity, "error", err)
	}
}
