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
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Metadata supplies everything the controller needs to know about T.
type Metadata[T any] interface {
	// ValidOrDefaultOrderBy resolves a requested sort field; "" selects the default.
	ValidOrDefaultOrderBy(name string) (Field[T], error)
	// SearchPredicates returns one equality per field set on example.
	SearchPredicates(example *T) []Condition
	// PrimaryKey extracts the identity of entity, nil when unset.
	PrimaryKey(entity *T) any
	// ConvertPrimaryKey normalizes a caller supplied identity to the key type.
	ConvertPrimaryKey(raw any) (any, error)
}

// KeyConverter converts a raw identity to an entity's key type.
type KeyConverter func(raw any) (any, error)

// EntityMetadata is the Metadata built from a field table.
type EntityMetadata[T any] struct {
	fields  *Fields[T]
	key     Field[T]
	convert KeyConverter
}

var _ Metadata[struct{}] = (*EntityMetadata[struct{}])(nil)

// NewMetadata builds metadata whose identity is the field named keyName.
func NewMetadata[T any](fields *Fields[T], keyName string, convert KeyConverter) (*EntityMetadata[T], error) {
	if fields == nil {
		return nil, errors.New("fields must not be nil")
	}
	if convert == nil {
		return nil, errors.New("key converter must not be nil")
	}
	key, ok := fields.Lookup(keyName)
	if !ok {
		return nil, &InvalidFieldError{Name: keyName, Supported: fields.Names()}
	}
	return &EntityMetadata[T]{fields: fields, key: key, convert: convert}, nil
}

// Fields returns the underlying field table.
func (m *EntityMetadata[T]) Fields() *Fields[T] { return m.fields }

// Key returns the identity field.
func (m *EntityMetadata[T]) Key() Field[T] { return m.key }

func (m *EntityMetadata[T]) ValidOrDefaultOrderBy(name string) (Field[T], error) {
	return m.fields.ValidOrDefaultOrderBy(name)
}

func (m *EntityMetadata[T]) SearchPredicates(example *T) []Condition {
	return m.fields.Predicates(example)
}

func (m *EntityMetadata[T]) PrimaryKey(entity *T) any {
	if entity == nil {
		return nil
	}
	if v, ok := m.key.Value(entity); ok {
		return v
	}
	return nil
}

func (m *EntityMetadata[T]) ConvertPrimaryKey(raw any) (any, error) {
	id, err := m.convert(raw)
	if err != nil {
		var invalid *InvalidIdentityError
		if errors.As(err, &invalid) {
			return nil, err
		}
		return nil, &InvalidIdentityError{Raw: raw, Err: err}
	}
	return id, nil
}

// Int64Key converts integers and decimal strings to int64.
func Int64Key(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, errors.New("identity is nil")
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, strconv.ErrRange
		}
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, strconv.ErrRange
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return strconv.ParseInt(strings.TrimSpace(fmt.Sprint(v)), 10, 64)
	}
}

// IntKey is Int64Key narrowed to int.
func IntKey(raw any) (any, error) {
	v, err := Int64Key(raw)
	if err != nil {
		return nil, err
	}
	n := v.(int64)
	if n > math.MaxInt || n < math.MinInt {
		return nil, strconv.ErrRange
	}
	return int(n), nil
}

// StringKey formats raw as a non-empty string.
func StringKey(raw any) (any, error) {
	if raw == nil {
		return nil, errors.New("identity is nil")
	}
	s := fmt.Sprint(raw)
	if s == "" {
		return nil, errors.New("identity is empty")
	}
	return s, nil
}

// UUIDKey accepts uuid.UUID, 16 raw bytes or the textual forms uuid.Parse accepts.
func UUIDKey(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, errors.New("identity is nil")
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	default:
		return uuid.Parse(strings.TrimSpace(fmt.Sprint(v)))
	}
}
