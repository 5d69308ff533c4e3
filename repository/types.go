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

	"github.com/uptrace/bun"

	"github.com/tomoncle/cornerstone/database"
	"github.com/tomoncle/cornerstone/types"
)

// ListOptions selects the ordering and the window of a listing.
type ListOptions struct {
	Order  Order
	Window types.Window
}

// FindOptions extends ListOptions with case-insensitive value matching.
type FindOptions struct {
	ListOptions
	IgnoreCase bool
}

// TransactionBody is a mutation executed inside a unit of work.
type TransactionBody[T any] func(ctx context.Context, tx bun.IDB, entity *T) error

// Reader defines the read operations of a controller. Every call opens and
// closes its own session.
type Reader[T any] interface {
	GetAll(ctx context.Context) ([]*T, error)

	Get(ctx context.Context, opts ListOptions) ([]*T, error)

	GetCount(ctx context.Context) (int, error)

	// GetByKey loads the entity with the given identity, nil when absent.
	GetByKey(ctx context.Context, id any) (*T, error)

	// GetReference returns a handle whose row is only read on Load.
	GetReference(ctx context.Context, id any) (*Reference[T], error)

	Find(ctx context.Context, entity *T) (*T, error)

	FindBy(ctx context.Context, field Field[T], value any, opts FindOptions) ([]*T, error)

	FindByCount(ctx context.Context, field Field[T], value any, ignoreCase bool) (int, error)

	FindByExample(ctx context.Context, example *T, opts ListOptions) ([]*T, error)

	FindByExampleWith(ctx context.Context, provider PredicateProvider[T], example *T, opts ListOptions) ([]*T, error)

	CountByExample(ctx context.Context, example *T) (int, error)

	CountByExampleWith(ctx context.Context, provider PredicateProvider[T], example *T, distinct bool) (int, error)
}

// Writer defines the mutations of a controller, each one a unit of work.
type Writer[T any] interface {
	Create(ctx context.Context, entity *T) (*T, error)

	// Update merges entity into the stored row, inserting it when missing.
	Update(ctx context.Context, entity *T) (*T, error)

	// Delete removes the stored row; a missing row is not an error.
	Delete(ctx context.Context, entity *T) error

	PerformTransaction(ctx context.Context, entity *T, body TransactionBody[T]) error
}

// Controller combines the read and write operations over T.
type Controller[T any] interface {
	Reader[T]
	Writer[T]
	Metadata() Metadata[T]
	Provider() PredicateProvider[T]
}

type options struct {
	logger database.Logger
	entity string
}

// Option configures a controller.
type Option func(*options)

// WithLogger sets the logger used for transaction diagnostics.
func WithLogger(logger database.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEntityName overrides the entity label used in logs and metrics.
func WithEntityName(name string) Option {
	return func(o *options) { o.entity = name }
}
