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
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/cornerstone/database"
	"github.com/tomoncle/cornerstone/repository"
)

const examplesCount = 100

type Example struct {
	bun.BaseModel `bun:"table:example,alias:e"`

	ID         int64   `bun:"id,pk,autoincrement"`
	SomeString *string `bun:"some_string"`
	SomeNumber *int    `bun:"some_number"`
}

type EdgeTable struct {
	bun.BaseModel `bun:"table:edge_table,alias:edge"`

	ID         int64  `bun:"id,pk,autoincrement"`
	SomeString string `bun:"some_string"`
}

type MiddleTable struct {
	bun.BaseModel `bun:"table:middle_table,alias:mid"`

	ID         int64  `bun:"id,pk,autoincrement"`
	SomeString string `bun:"some_string"`
	ExampleID  int64  `bun:"example,notnull"`
	EdgeID     int64  `bun:"edge_table,notnull"`
}

func newExample(s string, n int) *Example {
	return &Example{SomeString: &s, SomeNumber: &n}
}

func ptr[V any](v V) *V { return &v }

var exampleFields = repository.MustFields("id",
	repository.ValueField("id", "id", repository.KindNumber, func(e *Example) int64 { return e.ID }),
	repository.TextField("someString", "some_string", func(e *Example) *string { return e.SomeString }),
	repository.PointerField("someNumber", "some_number", repository.KindNumber, func(e *Example) *int { return e.SomeNumber }),
)

func exampleMetadata(t testing.TB) *repository.EntityMetadata[Example] {
	t.Helper()
	metadata, err := repository.NewMetadata(exampleFields, "id", repository.Int64Key)
	require.NoError(t, err)
	return metadata
}

func exampleField(t testing.TB, name string) repository.Field[Example] {
	t.Helper()
	field, ok := exampleFields.Lookup(name)
	require.True(t, ok, name)
	return field
}

var testModels = database.NewModelRegistry(
	database.NewModelAdapter((*Example)(nil), 0),
	database.NewModelAdapter((*EdgeTable)(nil), 0),
	database.NewModelAdapter((*MiddleTable)(nil), 1),
)

// newTestDB opens a private in-memory sqlite database holding the fixture
// tables. A single connection keeps every session on the same database.
func newTestDB(t testing.TB) *bun.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, testModels.CreateTables(context.Background(), db))
	return db
}

func newTestController(t testing.TB, db *bun.DB) repository.Controller[Example] {
	t.Helper()
	return repository.NewController[Example](database.NewBunSessions(db), exampleMetadata(t))
}

// seedExamples inserts rows alternating "SomeString-i"/555 and
// "someString-i"/777 without going through the controller.
func seedExamples(t testing.TB, db *bun.DB) []*Example {
	t.Helper()
	ctx := context.Background()
	examples := make([]*Example, 0, examplesCount)
	for i := 0; i < examplesCount; i++ {
		example := newExample(fmt.Sprintf("someString-%d", i), 777)
		if i%2 == 0 {
			example = newExample(fmt.Sprintf("SomeString-%d", i), 555)
		}
		_, err := db.NewInsert().Model(example).Exec(ctx)
		require.NoError(t, err)
		examples = append(examples, example)
	}
	return examples
}

func requireNoSessionInUse(t testing.TB, db *bun.DB) {
	t.Helper()
	require.Zero(t, db.Stats().InUse, "sessions left open")
}
