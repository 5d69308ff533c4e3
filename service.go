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

package cornerstone

import (
	"context"

	"github.com/tomoncle/cornerstone/database"
	"github.com/tomoncle/cornerstone/repository"
	"github.com/tomoncle/cornerstone/types"
)

// Service is a controller with paged search on top.
type Service[T any] interface {
	repository.Controller[T]

	// Page returns the page of entities matching example, with the total
	// number of matches.
	Page(ctx context.Context, example *T, page *types.PageRequest) (*types.Pagination[T], error)
}

type baseServiceImpl[T any] struct {
	repository.Controller[T]
}

// NewService returns a Service drawing sessions from sessions.
func NewService[T any](sessions database.SessionFactory, metadata repository.Metadata[T], opts ...repository.Option) Service[T] {
	return &baseServiceImpl[T]{Controller: repository.NewController(sessions, metadata, opts...)}
}

// NewServiceFromController wraps an existing controller.
func NewServiceFromController[T any](controller repository.Controller[T]) Service[T] {
	return &baseServiceImpl[T]{Controller: controller}
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, example *T, page *types.PageRequest) (*types.Pagination[T], error) {
	if page == nil {
		page = types.NewDefaultPageRequest(1, 10)
	}
	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := s.CountByExample(ctx, example)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return pagination, nil
	}
	items, err := s.FindByExample(ctx, example, repository.ListOptions{
		Order: repository.Order{
			By:         page.GetOrderBy(),
			IgnoreCase: page.IsIgnoreCase(),
			Desc:       page.GetDirection() == types.DirectionDesc,
		},
		Window: page.Window(),
	})
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}
