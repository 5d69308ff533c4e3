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
)

// Reference is an identity-only handle. The row is read on the first
// successful Load, so a reference to a missing row only fails then.
// A Reference is not safe for concurrent use.
type Reference[T any] struct {
	id     any
	load   func(ctx context.Context) (*T, error)
	entity *T
}

func newReference[T any](id any, load func(ctx context.Context) (*T, error)) *Reference[T] {
	return &Reference[T]{id: id, load: load}
}

// ID returns the converted identity.
func (r *Reference[T]) ID() any { return r.id }

// Loaded reports whether the row has been read.
func (r *Reference[T]) Loaded() bool { return r.entity != nil }

// Load reads the row once and caches it. It returns ErrEntityNotFound when
// the row does not exist.
func (r *Reference[T]) Load(ctx context.Context) (*T, error) {
	if r.entity != nil {
		return r.entity, nil
	}
	entity, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: %v", ErrEntityNotFound, r.id)
	}
	r.entity = entity
	return entity, nil
}
