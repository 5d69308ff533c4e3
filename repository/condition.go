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
	"github.com/uptrace/bun"

	"github.com/tomoncle/cornerstone/types"
)

// Condition is a WHERE fragment with its arguments. Conditions applied to
// the same query are ANDed.
type Condition struct {
	Query string
	Args  []any
}

// NewCondition builds a condition from a bun query fragment.
func NewCondition(query string, args ...any) Condition {
	return Condition{Query: query, Args: args}
}

// Expression is an ORDER BY expression. Only KindText expressions are
// upper-cased for case-insensitive ordering.
type Expression struct {
	Query string
	Args  []any
	Kind  Kind
}

// NewExpression builds an order expression of the given kind.
func NewExpression(kind Kind, query string, args ...any) Expression {
	return Expression{Query: query, Args: args, Kind: kind}
}

// orderClause renders the expression as an ORDER BY item.
func (e Expression) orderClause(ignoreCase bool, direction types.Direction) (string, []any) {
	query := e.Query
	if ignoreCase && e.Kind == KindText {
		query = "UPPER(" + query + ")"
	}
	return query + " " + direction.String(), e.Args
}

func applyConditions(q *bun.SelectQuery, conditions []Condition) *bun.SelectQuery {
	for _, c := range conditions {
		q = q.Where(c.Query, c.Args...)
	}
	return q
}
