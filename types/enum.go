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

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Direction is a sort direction.
type Direction int

const (
	DirectionAsc Direction = iota
	DirectionDesc
)

var _ BaseEnum = DirectionAsc

// ParseDirection parses "asc" or "desc" in any case. Anything else yields
// an invalid direction.
func ParseDirection(s string) Direction {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return DirectionAsc
	case "DESC":
		return DirectionDesc
	}
	return Direction(IllegalValue)
}

// DirectionOf returns DirectionDesc when desc is set.
func DirectionOf(desc bool) Direction {
	if desc {
		return DirectionDesc
	}
	return DirectionAsc
}

func (d Direction) IsValid() bool {
	return d == DirectionAsc || d == DirectionDesc
}

func (d Direction) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

// String returns the SQL keyword of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionAsc:
		return "ASC"
	case DirectionDesc:
		return "DESC"
	}
	return IllegalName
}

func (d Direction) Desc() string {
	switch d {
	case DirectionAsc:
		return "ascending"
	case DirectionDesc:
		return "descending"
	}
	return IllegalDesc
}

func (d Direction) Name() string {
	return strings.ToLower(d.String())
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == DirectionDesc {
		return DirectionAsc
	}
	return DirectionDesc
}
