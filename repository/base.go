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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"

	"github.com/tomoncle/cornerstone/database"
	"github.com/tomoncle/cornerstone/types"
)

type baseControllerImpl[T any] struct {
	sessions database.SessionFactory
	metadata Metadata[T]
	provider PredicateProvider[T]
	logger   database.Logger
	entity   string
}

// NewController returns a controller over T drawing one session per call
// from sessions.
func NewController[T any](sessions database.SessionFactory, metadata Metadata[T], opts ...Option) Controller[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = database.GetLogger()
	}
	if o.entity == "" {
		o.entity = entityName[T]()
	}
	return &baseControllerImpl[T]{
		sessions: sessions,
		metadata: metadata,
		provider: DefaultProvider(metadata),
		logger:   o.logger,
		entity:   o.entity,
	}
}

func entityName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Name() == "" {
		return "entity"
	}
	return strings.ToLower(t.Name())
}

func (c *baseControllerImpl[T]) Metadata() Metadata[T] { return c.metadata }

func (c *baseControllerImpl[T]) Provider() PredicateProvider[T] { return c.provider }

func (c *baseControllerImpl[T]) withSession(ctx context.Context, fn func(sess *database.Session) error) error {
	sess, err := c.sessions.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer sess.Close()
	return fn(sess)
}

func (c *baseControllerImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	return c.list(ctx, c.provider, nil, Order{}, types.NoWindow)
}

func (c *baseControllerImpl[T]) Get(ctx context.Context, opts ListOptions) ([]*T, error) {
	return c.list(ctx, c.provider, nil, opts.Order, opts.Window)
}

func (c *baseControllerImpl[T]) GetCount(ctx context.Context) (int, error) {
	return c.count(ctx, c.provider, nil, false)
}

func (c *baseControllerImpl[T]) GetByKey(ctx context.Context, id any) (*T, error) {
	key, err := c.metadata.ConvertPrimaryKey(id)
	if err != nil {
		return nil, err
	}
	var entity *T
	err = c.withSession(ctx, func(sess *database.Session) error {
		entity, err = loadByKey[T](ctx, sess.DB(), key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %v: %w", c.entity, key, err)
	}
	return entity, nil
}

func (c *baseControllerImpl[T]) GetReference(ctx context.Context, id any) (*Reference[T], error) {
	key, err := c.metadata.ConvertPrimaryKey(id)
	if err != nil {
		return nil, err
	}
	return newReference(key, func(ctx context.Context) (*T, error) {
		return c.GetByKey(ctx, key)
	}), nil
}

func (c *baseControllerImpl[T]) Find(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	return c.GetByKey(ctx, c.metadata.PrimaryKey(entity))
}

func (c *baseControllerImpl[T]) FindBy(ctx context.Context, field Field[T], value any, opts FindOptions) ([]*T, error) {
	return c.list(ctx, c.fieldProvider(field, value, opts.IgnoreCase), nil, opts.Order, opts.Window)
}

func (c *baseControllerImpl[T]) FindByCount(ctx context.Context, field Field[T], value any, ignoreCase bool) (int, error) {
	return c.count(ctx, c.fieldProvider(field, value, ignoreCase), nil, false)
}

func (c *baseControllerImpl[T]) FindByExample(ctx context.Context, example *T, opts ListOptions) ([]*T, error) {
	return c.list(ctx, c.provider, example, opts.Order, opts.Window)
}

func (c *baseControllerImpl[T]) FindByExampleWith(ctx context.Context, provider PredicateProvider[T], example *T, opts ListOptions) ([]*T, error) {
	if provider == nil {
		provider = c.provider
	}
	return c.list(ctx, provider, example, opts.Order, opts.Window)
}

func (c *baseControllerImpl[T]) CountByExample(ctx context.Context, example *T) (int, error) {
	return c.count(ctx, c.provider, example, false)
}

func (c *baseControllerImpl[T]) CountByExampleWith(ctx context.Context, provider PredicateProvider[T], example *T, distinct bool) (int, error) {
	if provider == nil {
		provider = c.provider
	}
	return c.count(ctx, provider, example, distinct)
}

func (c *baseControllerImpl[T]) fieldProvider(field Field[T], value any, ignoreCase bool) PredicateProvider[T] {
	return ProviderWithPredicates(c.provider, func(_ *T, _ *QueryContext) ([]Condition, error) {
		return FieldPredicates(field, value, ignoreCase), nil
	})
}

// list runs one ordered, optionally windowed select.
func (c *baseControllerImpl[T]) list(ctx context.Context, provider PredicateProvider[T], example *T, order Order, window types.Window) ([]*T, error) {
	entities := make([]*T, 0)
	err := c.withSession(ctx, func(sess *database.Session) error {
		qc := newQueryContext(sess.NewSelect().Model(&entities))
		conditions, err := provider.Predicates(example, qc)
		if err != nil {
			return err
		}
		expr, err := provider.OrderBy(order.By, qc)
		if err != nil {
			return err
		}
		query := applyConditions(qc.Query(), conditions)
		if qc.IsDistinct() {
			query = query.Distinct()
		}
		clause, args := expr.orderClause(order.IgnoreCase, order.Direction())
		query = query.OrderExpr(clause, args...)
		if window.Bounded() {
			query = query.Offset(window.Offset()).Limit(window.Max)
		}
		if err := query.Scan(ctx); err != nil {
			return fmt.Errorf("failed to list %s: %w", c.entity, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = make([]*T, 0)
	}
	return entities, nil
}

// count counts the rows matching the provider's predicates. With distinct,
// duplicate root rows produced by joins are counted once.
func (c *baseControllerImpl[T]) count(ctx context.Context, provider PredicateProvider[T], example *T, distinct bool) (int, error) {
	var total int
	err := c.withSession(ctx, func(sess *database.Session) error {
		qc := newQueryContext(sess.NewSelect().Model((*T)(nil)))
		conditions, err := provider.Predicates(example, qc)
		if err != nil {
			return err
		}
		query := applyConditions(qc.Query(), conditions)
		if distinct {
			err = sess.NewSelect().
				TableExpr("(?) AS ?", query.Distinct(), bun.Ident("distinct_rows")).
				ColumnExpr("count(*)").
				Scan(ctx, &total)
		} else {
			total, err = query.Count(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to count %s: %w", c.entity, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// loadByKey returns nil without error when no row has the key.
func loadByKey[T any](ctx context.Context, db bun.IDB, key any) (*T, error) {
	entity := new(T)
	err := db.NewSelect().Model(entity).Where("?TablePKs = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}
