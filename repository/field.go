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
	"fmt"
	"sort"

	"github.com/uptrace/bun"
)

// Kind is the semantic type of a field's value.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "other"
	}
}

// Field is a filterable and orderable field of T. Value reports the field's
// value on an instance and whether it is set.
type Field[T any] struct {
	Name   string
	Column string
	Kind   Kind
	Value  func(entity *T) (any, bool)
}

// PointerField builds a field whose value is held behind a pointer; a nil
// pointer means unset.
func PointerField[T any, V any](name, column string, kind Kind, get func(*T) *V) Field[T] {
	return Field[T]{
		Name:   name,
		Column: column,
		Kind:   kind,
		Value: func(entity *T) (any, bool) {
			if v := get(entity); v != nil {
				return *v, true
			}
			return nil, false
		},
	}
}

// ValueField builds a field whose zero value means unset.
func ValueField[T any, V comparable](name, column string, kind Kind, get func(*T) V) Field[T] {
	return Field[T]{
		Name:   name,
		Column: column,
		Kind:   kind,
		Value: func(entity *T) (any, bool) {
			var zero V
			if v := get(entity); v != zero {
				return v, true
			}
			return nil, false
		},
	}
}

// TextField builds a nullable text field.
func TextField[T any](name, column string, get func(*T) *string) Field[T] {
	return PointerField(name, column, KindText, get)
}

// Expression returns the field's column qualified by the query's table alias.
func (f Field[T]) Expression() Expression {
	return Expression{Query: "?TableAlias.?", Args: []any{bun.Ident(f.Column)}, Kind: f.Kind}
}

// Equal returns column = value, or column IS NULL for a nil value.
func (f Field[T]) Equal(value any) Condition {
	if value == nil {
		return Condition{Query: "?TableAlias.? IS NULL", Args: []any{bun.Ident(f.Column)}}
	}
	return Condition{Query: "?TableAlias.? = ?", Args: []any{bun.Ident(f.Column), value}}
}

// EqualFold compares text fields upper-cased on both sides. Other kinds fall
// back to Equal.
func (f Field[T]) EqualFold(value any) Condition {
	if f.Kind != KindText || value == nil {
		return f.Equal(value)
	}
	return Condition{Query: "UPPER(?TableAlias.?) = UPPER(?)", Args: []any{bun.Ident(f.Column), value}}
}

// Fields is the per-entity field table: declared order for predicates, a
// name index for the order-by whitelist and a default order field.
type Fields[T any] struct {
	ordered      []Field[T]
	byName       map[string]Field[T]
	defaultField Field[T]
}

// NewFields builds a field table. defaultName must name one of fields.
func NewFields[T any](defaultName string, fields ...Field[T]) (*Fields[T], error) {
	f := &Fields[T]{
		ordered: make([]Field[T], 0, len(fields)),
		byName:  make(map[string]Field[T], len(fields)),
	}
	for _, field := range fields {
		if field.Name == "" || field.Column == "" || field.Value == nil {
			return nil, fmt.Errorf("field %q is incomplete", field.Name)
		}
		if _, ok := f.byName[field.Name]; ok {
			return nil, fmt.Errorf("duplicate field %q", field.Name)
		}
		f.ordered = append(f.ordered, field)
		f.byName[field.Name] = field
	}
	def, ok := f.byName[defaultName]
	if !ok {
		return nil, fmt.Errorf("default order field %q is not declared", defaultName)
	}
	f.defaultField = def
	return f, nil
}

// MustFields is like NewFields but panics on error.
func MustFields[T any](defaultName string, fields ...Field[T]) *Fields[T] {
	f, err := NewFields(defaultName, fields...)
	if err != nil {
		panic(err)
	}
	return f
}

// Lookup returns the field registered under name.
func (f *Fields[T]) Lookup(name string) (Field[T], bool) {
	field, ok := f.byName[name]
	return field, ok
}

// Default returns the field used when no order is requested.
func (f *Fields[T]) Default() Field[T] { return f.defaultField }

// All returns the fields in declaration order.
func (f *Fields[T]) All() []Field[T] {
	result := make([]Field[T], len(f.ordered))
	copy(result, f.ordered)
	return result
}

// Names returns the whitelisted field names, sorted.
func (f *Fields[T]) Names() []string {
	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
