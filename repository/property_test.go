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

package repository_test

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/tomoncle/cornerstone/repository"
	"github.com/tomoncle/cornerstone/types"
)

func windowed(full []*Example, start, max int) []*Example {
	if start >= len(full) {
		return []*Example{}
	}
	end := start + max
	if end > len(full) {
		end = len(full)
	}
	return full[start:end]
}

func TestProperty_WindowIsSliceOfFullResult(t *testing.T) {
	db := newTestDB(t)
	seedExamples(t, db)
	controller := newTestController(t, db)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("list(window) == list(no window)[start:start+max]", prop.ForAll(
		func(start, max int, ignoreCase, desc bool) bool {
			order := repository.Order{By: "someString", IgnoreCase: ignoreCase, Desc: desc}
			full, err := controller.Get(ctx, repository.ListOptions{Order: order, Window: types.NoWindow})
			if err != nil {
				t.Logf("full list failed: %v", err)
				return false
			}
			page, err := controller.Get(ctx, repository.ListOptions{Order: order, Window: types.NewWindow(start, max)})
			if err != nil {
				t.Logf("windowed list failed: %v", err)
				return false
			}
			return assert.ObjectsAreEqual(windowed(full, start, max), page)
		},
		gen.IntRange(0, examplesCount+10),
		gen.IntRange(1, 30),
		gen.Bool(),
		gen.Bool(),
	))

	properties.Property("ascending reversed equals descending", prop.ForAll(
		func(orderBy string, ignoreCase bool) bool {
			asc, err := controller.Get(ctx, repository.ListOptions{Order: repository.Order{By: orderBy, IgnoreCase: ignoreCase}})
			if err != nil {
				return false
			}
			desc, err := controller.Get(ctx, repository.ListOptions{Order: repository.Order{By: orderBy, IgnoreCase: ignoreCase, Desc: true}})
			if err != nil {
				return false
			}
			for i, j := 0, len(asc)-1; i < j; i, j = i+1, j-1 {
				asc[i], asc[j] = asc[j], asc[i]
			}
			return assert.ObjectsAreEqual(asc, desc)
		},
		gen.OneConstOf("", "id", "someString"),
		gen.Bool(),
	))

	properties.TestingRun(t)
	requireNoSessionInUse(t, db)
}

func TestProperty_CountMatchesList(t *testing.T) {
	db := newTestDB(t)
	examples := seedExamples(t, db)
	controller := newTestController(t, db)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("count(example) == len(list(example)) and every row matches", prop.ForAll(
		func(number, index int, withNumber, withString bool) bool {
			example := &Example{}
			if withNumber {
				example.SomeNumber = ptr(number)
			}
			if withString {
				example.SomeString = examples[index].SomeString
			}
			rows, err := controller.FindByExample(ctx, example, repository.ListOptions{})
			if err != nil {
				return false
			}
			count, err := controller.CountByExample(ctx, example)
			if err != nil || count != len(rows) {
				return false
			}
			expected := filterExamples(examples, func(e *Example) bool {
				if withNumber && *e.SomeNumber != number {
					return false
				}
				return !withString || *e.SomeString == *examples[index].SomeString
			})
			return assert.ObjectsAreEqual(expected, rows)
		},
		gen.OneConstOf(555, 777, 1),
		gen.IntRange(0, examplesCount-1),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
