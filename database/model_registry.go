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

package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/uptrace/bun"
)

// SQLModel is a bun model registered for table creation. Instance returns a
// struct pointer; Priority orders creation (lower first) so referenced
// tables exist before the tables pointing at them.
type SQLModel interface {
	Instance() interface{}
	Priority() int
}

// ModelRegistry keeps SQL models in a deterministic order. It is used to
// create and drop the tables of test fixtures and examples; it is not a
// migration tool.
type ModelRegistry struct {
	models []SQLModel
	mutex  sync.RWMutex
}

// NewModelRegistry returns a registry holding models.
func NewModelRegistry(models ...SQLModel) *ModelRegistry {
	r := &ModelRegistry{}
	for _, m := range models {
		r.Register(m)
	}
	return r
}

func (r *ModelRegistry) Register(model SQLModel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, model)
}

// Models returns the registered models sorted by ascending priority.
func (r *ModelRegistry) Models() []SQLModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]SQLModel, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

// CreateTables creates every registered table that does not exist yet.
func (r *ModelRegistry) CreateTables(ctx context.Context, db bun.IDB) error {
	for _, model := range r.Models() {
		if _, err := db.NewCreateTable().Model(model.Instance()).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model.Instance(), err)
		}
	}
	return nil
}

// DropTables drops the registered tables in reverse priority order.
func (r *ModelRegistry) DropTables(ctx context.Context, db bun.IDB) error {
	models := r.Models()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i].Instance()).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i].Instance(), err)
		}
	}
	return nil
}

// Truncate deletes every row of the registered tables, dependants first.
func (r *ModelRegistry) Truncate(ctx context.Context, db bun.IDB) error {
	models := r.Models()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDelete().Model(models[i].Instance()).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("failed to truncate table for %T: %w", models[i].Instance(), err)
		}
	}
	return nil
}

type modelAdapter struct {
	instance interface{}
	priority int
}

// NewModelAdapter wraps a struct instance and priority into an SQLModel.
func NewModelAdapter(instance interface{}, priority int) SQLModel {
	return &modelAdapter{instance: instance, priority: priority}
}

func (a *modelAdapter) Instance() interface{} { return a.instance }

func (a *modelAdapter) Priority() int { return a.priority }
