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
	"strings"

	"github.com/uptrace/bun"
)

// Predicates returns one equality condition per field set on example, in
// declaration order. A nil example, or one with no field set, yields an
// empty slice and matches every row.
func (f *Fields[T]) Predicates(example *T) []Condition {
	conditions := make([]Condition, 0, len(f.ordered))
	if example == nil {
		return conditions
	}
	for _, field := range f.ordered {
		if v, ok := field.Value(example); ok {
			conditions = append(conditions, field.Equal(v))
		}
	}
	return conditions
}

// FieldPredicates returns exactly one condition comparing field to value.
// With ignoreCase a text field is compared upper-cased; a nil value
// compares with IS NULL.
func FieldPredicates[T any](field Field[T], value any, ignoreCase bool) []Condition {
	if ignoreCase {
		return []Condition{field.EqualFold(value)}
	}
	return []Condition{field.Equal(value)}
}

// LikeString wraps value for a case-insensitive substring match against an
// upper-cased column.
func LikeString(value string) string {
	return "%" + strings.ToUpper(value) + "%"
}

// Like builds UPPER(column) LIKE %VALUE% for the named field.
func (f *Fields[T]) Like(name, value string) (Condition, error) {
	field, ok := f.Lookup(name)
	if !ok {
		return Condition{}, &InvalidFieldError{Name: name, Supported: f.Names()}
	}
	return Condition{
		Query: "UPPER(?TableAlias.?) LIKE ?",
		Args:  []any{bun.Ident(field.Column), LikeString(value)},
	}, nil
}
