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

import "github.com/tomoncle/cornerstone/types"

// Order is a requested ordering. An empty By selects the entity's default
// field. IgnoreCase only affects text fields.
type Order struct {
	By         string
	IgnoreCase bool
	Desc       bool
}

// Direction returns the sort direction of the order.
func (o Order) Direction() types.Direction {
	return types.DirectionOf(o.Desc)
}

// ValidOrDefaultOrderBy resolves name against the whitelist: empty returns
// the default field, unknown names fail with *InvalidOrderByFieldError.
func (f *Fields[T]) ValidOrDefaultOrderBy(name string) (Field[T], error) {
	if name == "" {
		return f.defaultField, nil
	}
	if field, ok := f.byName[name]; ok {
		return field, nil
	}
	return Field[T]{}, &InvalidOrderByFieldError{Name: name, Supported: f.Names()}
}
