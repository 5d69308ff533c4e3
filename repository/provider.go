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

import "github.com/uptrace/bun"

// QueryContext is the query a provider contributes to. Providers may add
// joins and request duplicate elimination; conditions and the order
// expression they return are applied by the controller.
type QueryContext struct {
	query    *bun.SelectQuery
	distinct bool
}

func newQueryContext(q *bun.SelectQuery) *QueryContext {
	return &QueryContext{query: q}
}

// Query returns the select query under construction.
func (qc *QueryContext) Query() *bun.SelectQuery { return qc.query }

// Join adds a JOIN clause, e.g. "JOIN middle_table AS mt ON mt.example = ?TableAlias.id".
func (qc *QueryContext) Join(join string, args ...any) *QueryContext {
	qc.query = qc.query.Join(join, args...)
	return qc
}

// Distinct asks for duplicate root rows to be eliminated when listing.
func (qc *QueryContext) Distinct() *QueryContext {
	qc.distinct = true
	return qc
}

// IsDistinct reports whether Distinct was requested.
func (qc *QueryContext) IsDistinct() bool { return qc.distinct }

// PredicateProvider derives the filter and the order expression of a query.
// The same provider is used for a list and its count.
type PredicateProvider[T any] interface {
	Predicates(example *T, qc *QueryContext) ([]Condition, error)
	OrderBy(name string, qc *QueryContext) (Expression, error)
}

// PredicatesFunc overrides PredicateProvider.Predicates.
type PredicatesFunc[T any] func(example *T, qc *QueryContext) ([]Condition, error)

// OrderByFunc overrides PredicateProvider.OrderBy.
type OrderByFunc[T any] func(name string, qc *QueryContext) (Expression, error)

type defaultProvider[T any] struct {
	metadata Metadata[T]
}

// DefaultProvider matches set fields by equality and orders by the
// whitelisted field.
func DefaultProvider[T any](metadata Metadata[T]) PredicateProvider[T] {
	return &defaultProvider[T]{metadata: metadata}
}

func (p *defaultProvider[T]) Predicates(example *T, _ *QueryContext) ([]Condition, error) {
	return p.metadata.SearchPredicates(example), nil
}

func (p *defaultProvider[T]) OrderBy(name string, _ *QueryContext) (Expression, error) {
	field, err := p.metadata.ValidOrDefaultOrderBy(name)
	if err != nil {
		return Expression{}, err
	}
	return field.Expression(), nil
}

type overrideProvider[T any] struct {
	base       PredicateProvider[T]
	predicates PredicatesFunc[T]
	orderBy    OrderByFunc[T]
}

func (p *overrideProvider[T]) Predicates(example *T, qc *QueryContext) ([]Condition, error) {
	if p.predicates != nil {
		return p.predicates(example, qc)
	}
	return p.base.Predicates(example, qc)
}

func (p *overrideProvider[T]) OrderBy(name string, qc *QueryContext) (Expression, error) {
	if p.orderBy != nil {
		return p.orderBy(name, qc)
	}
	return p.base.OrderBy(name, qc)
}

// ProviderWithPredicates replaces the predicates of base and keeps its ordering.
func ProviderWithPredicates[T any](base PredicateProvider[T], fn PredicatesFunc[T]) PredicateProvider[T] {
	return &overrideProvider[T]{base: base, predicates: fn}
}

// ProviderWithOrderBy replaces the ordering of base and keeps its predicates.
func ProviderWithOrderBy[T any](base PredicateProvider[T], fn OrderByFunc[T]) PredicateProvider[T] {
	return &overrideProvider[T]{base: base, orderBy: fn}
}
