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
	"strings"
)

var (
	// ErrInvalidOrderByField matches a sort field outside the whitelist.
	ErrInvalidOrderByField = errors.New("invalid orderBy field")
	// ErrInvalidField matches a field name the entity does not declare.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidIdentity matches an identity that cannot be converted to the
	// entity's key type.
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrEntityNotFound is returned when a reference is loaded and its row
	// does not exist.
	ErrEntityNotFound = errors.New("entity not found")
	ErrNilEntity      = errors.New("entity must not be nil")
)

// InvalidOrderByFieldError lists the supported names alongside the rejected one.
type InvalidOrderByFieldError struct {
	Name      string
	Supported []string
}

func (e *InvalidOrderByFieldError) Error() string {
	return fmt.Sprintf("invalid orderBy: '%s', supported values: %s", e.Name, strings.Join(e.Supported, ","))
}

func (e *InvalidOrderByFieldError) Is(target error) bool {
	return target == ErrInvalidOrderByField
}

// InvalidFieldError is returned when a field is looked up by an unknown name.
type InvalidFieldError struct {
	Name      string
	Supported []string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field: '%s', supported values: %s", e.Name, strings.Join(e.Supported, ","))
}

func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// InvalidIdentityError wraps the conversion failure of a raw identity.
type InvalidIdentityError struct {
	Raw any
	Err error
}

func (e *InvalidIdentityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid identity: %v", e.Raw)
	}
	return fmt.Sprintf("invalid identity %v: %v", e.Raw, e.Err)
}

func (e *InvalidIdentityError) Is(target error) bool {
	return target == ErrInvalidIdentity
}

func (e *InvalidIdentityError) Unwrap() error { return e.Err }
