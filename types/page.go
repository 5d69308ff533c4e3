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

package types

// Window selects a slice of an ordered result set: Start rows are skipped
// and at most Max rows are returned. A window whose Max is not positive is
// unbounded and selects every row, Start included.
type Window struct {
	Start int
	Max   int
}

// NoWindow selects the full result set.
var NoWindow = Window{}

// NewWindow constructs a window starting at start holding at most max rows.
func NewWindow(start, max int) Window {
	return Window{Start: start, Max: max}
}

// Bounded reports whether the window limits the result set.
func (w Window) Bounded() bool {
	return w.Max > 0
}

// Offset returns the number of rows to skip, never negative.
func (w Window) Offset() int {
	if w.Start < 0 {
		return 0
	}
	return w.Start
}

// PageRequest describes a page number, page size and ordering.
type PageRequest struct {
	page       int
	pageSize   int
	orderBy    string
	ignoreCase bool
	direction  Direction
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = 10
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = 1
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// Window returns the rows covered by the requested page.
func (p *PageRequest) Window() Window {
	return NewWindow(p.GetOffset(), p.GetPageSize())
}

// GetOrderBy returns the requested sort field name; empty selects the
// entity's default field.
func (p *PageRequest) GetOrderBy() string {
	return p.orderBy
}

func (p *PageRequest) IsIgnoreCase() bool {
	return p.ignoreCase
}

func (p *PageRequest) GetDirection() Direction {
	if !p.direction.IsValid() {
		p.direction = DirectionAsc
	}
	return p.direction
}

// NewPageRequest constructs a PageRequest with ordering settings.
func NewPageRequest(page int, pageSize int, orderBy string, ignoreCase bool, direction Direction) *PageRequest {
	return &PageRequest{page, pageSize, orderBy, ignoreCase, direction}
}

// NewDefaultPageRequest constructs a PageRequest ordered by the default field.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, "", false, DirectionAsc)
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}

// Pages returns the number of pages needed to hold Total items.
func (p *Pagination[T]) Pages() int {
	if p.PageSize < 1 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
