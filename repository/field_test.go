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
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/cornerstone/types"
)

type widget struct {
	bun.BaseModel `bun:"table:widget,alias:w"`

	ID    int64   `bun:"id,pk,autoincrement"`
	Label *string `bun:"label"`
	Size  *int    `bun:"size"`
	Code  string  `bun:"code"`
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func widgetFields(t *testing.T) *Fields[widget] {
	t.Helper()
	fields, err := NewFields("id",
		ValueField("id", "id", KindNumber, func(w *widget) int64 { return w.ID }),
		TextField("label", "label", func(w *widget) *string { return w.Label }),
		PointerField("size", "size", KindNumber, func(w *widget) *int { return w.Size }),
		ValueField("code", "code", KindText, func(w *widget) string { return w.Code }),
	)
	require.NoError(t, err)
	return fields
}

func newFormatterDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewFieldsRejectsBadTables(t *testing.T) {
	id := ValueField("id", "id", KindNumber, func(w *widget) int64 { return w.ID })

	_, err := NewFields("missing", id)
	assert.Error(t, err)

	_, err = NewFields("id", id, id)
	assert.Error(t, err)

	_, err = NewFields("id", id, Field[widget]{Name: "broken"})
	assert.Error(t, err)

	assert.Panics(t, func() { MustFields("missing", id) })
}

func TestValidOrDefaultOrderBy(t *testing.T) {
	fields := widgetFields(t)

	field, err := fields.ValidOrDefaultOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "id", field.Name)

	field, err = fields.ValidOrDefaultOrderBy("label")
	require.NoError(t, err)
	assert.Equal(t, "label", field.Column)
	assert.Equal(t, KindText, field.Kind)

	_, err = fields.ValidOrDefaultOrderBy("colour")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOrderByField))
	assert.Equal(t, "invalid orderBy: 'colour', supported values: code,id,label,size", err.Error())

	var invalid *InvalidOrderByFieldError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"code", "id", "label", "size"}, invalid.Supported)
}

func TestPredicatesSkipUnsetFields(t *testing.T) {
	fields := widgetFields(t)

	assert.Empty(t, fields.Predicates(nil))
	assert.Empty(t, fields.Predicates(&widget{}))

	conditions := fields.Predicates(&widget{Size: intPtr(3), Code: "x"})
	require.Len(t, conditions, 2)
	assert.Equal(t, "?TableAlias.? = ?", conditions[0].Query)
	assert.Equal(t, []any{bun.Ident("size"), 3}, conditions[0].Args)
	assert.Equal(t, []any{bun.Ident("code"), "x"}, conditions[1].Args)

	conditions = fields.Predicates(&widget{ID: 9, Label: strPtr("a"), Size: intPtr(0)})
	require.Len(t, conditions, 3)
	assert.Equal(t, []any{bun.Ident("id"), int64(9)}, conditions[0].Args)
	assert.Equal(t, []any{bun.Ident("size"), 0}, conditions[2].Args)
}

func TestFieldPredicates(t *testing.T) {
	fields := widgetFields(t)
	label, _ := fields.Lookup("label")
	size, _ := fields.Lookup("size")

	conditions := FieldPredicates(label, "abc", false)
	require.Len(t, conditions, 1)
	assert.Equal(t, "?TableAlias.? = ?", conditions[0].Query)

	conditions = FieldPredicates(label, "abc", true)
	require.Len(t, conditions, 1)
	assert.Equal(t, "UPPER(?TableAlias.?) = UPPER(?)", conditions[0].Query)

	conditions = FieldPredicates(size, 4, true)
	assert.Equal(t, "?TableAlias.? = ?", conditions[0].Query)

	conditions = FieldPredicates(label, nil, true)
	assert.Equal(t, "?TableAlias.? IS NULL", conditions[0].Query)
	assert.Equal(t, []any{bun.Ident("label")}, conditions[0].Args)
}

func TestOrderClause(t *testing.T) {
	fields := widgetFields(t)
	label, _ := fields.Lookup("label")
	size, _ := fields.Lookup("size")

	clause, args := label.Expression().orderClause(true, types.DirectionDesc)
	assert.Equal(t, "UPPER(?TableAlias.?) DESC", clause)
	assert.Equal(t, []any{bun.Ident("label")}, args)

	clause, _ = label.Expression().orderClause(false, types.DirectionAsc)
	assert.Equal(t, "?TableAlias.? ASC", clause)

	clause, _ = size.Expression().orderClause(true, types.DirectionAsc)
	assert.Equal(t, "?TableAlias.? ASC", clause)
}

func TestRenderedQuery(t *testing.T) {
	db := newFormatterDB(t)
	fields := widgetFields(t)
	label, _ := fields.Lookup("label")

	q := applyConditions(db.NewSelect().Model((*widget)(nil)), fields.Predicates(&widget{Size: intPtr(555)}))
	clause, args := label.Expression().orderClause(true, Order{Desc: true}.Direction())
	sqlText := q.OrderExpr(clause, args...).Offset(10).Limit(5).String()

	assert.Contains(t, sqlText, `FROM "widget" AS "w"`)
	assert.Contains(t, sqlText, `"w"."size" = 555`)
	assert.Contains(t, sqlText, `ORDER BY UPPER("w"."label") DESC`)
	assert.Contains(t, sqlText, "LIMIT 5")
	assert.Contains(t, sqlText, "OFFSET 10")
}

func TestLike(t *testing.T) {
	fields := widgetFields(t)

	assert.Equal(t, "%ABC%", LikeString("aBc"))

	condition, err := fields.Like("label", "foo")
	require.NoError(t, err)
	assert.Equal(t, "UPPER(?TableAlias.?) LIKE ?", condition.Query)
	assert.Equal(t, []any{bun.Ident("label"), "%FOO%"}, condition.Args)

	_, err = fields.Like("nope", "foo")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestKeyConverters(t *testing.T) {
	cases := []struct {
		name    string
		convert KeyConverter
		raw     any
		want    any
		wantErr bool
	}{
		{"int64 from int", Int64Key, 7, int64(7), false},
		{"int64 from string", Int64Key, " 42 ", int64(42), false},
		{"int64 from uint64 overflow", Int64Key, uint64(1 << 63), nil, true},
		{"int64 from garbage", Int64Key, "abc", nil, true},
		{"int64 from nil", Int64Key, nil, nil, true},
		{"int from int64", IntKey, int64(3), 3, false},
		{"int from string", IntKey, "12", 12, false},
		{"string from int", StringKey, 5, "5", false},
		{"string empty", StringKey, "", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.convert(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUUIDKey(t *testing.T) {
	id := uuid.New()

	got, err := UUIDKey(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = UUIDKey(id[:])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = UUIDKey([16]byte(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = UUIDKey("not-a-uuid")
	assert.Error(t, err)
}

func TestEntityMetadata(t *testing.T) {
	fields := widgetFields(t)

	_, err := NewMetadata(fields, "missing", Int64Key)
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = NewMetadata(fields, "id", nil)
	assert.Error(t, err)

	metadata, err := NewMetadata(fields, "id", Int64Key)
	require.NoError(t, err)
	assert.Equal(t, "id", metadata.Key().Name)

	assert.Nil(t, metadata.PrimaryKey(nil))
	assert.Nil(t, metadata.PrimaryKey(&widget{}))
	assert.Equal(t, int64(4), metadata.PrimaryKey(&widget{ID: 4}))

	key, err := metadata.ConvertPrimaryKey("17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), key)

	_, err = metadata.ConvertPrimaryKey("seventeen")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
	var invalid *InvalidIdentityError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "seventeen", invalid.Raw)
}

func TestProviderOverrides(t *testing.T) {
	fields := widgetFields(t)
	metadata, err := NewMetadata(fields, "id", Int64Key)
	require.NoError(t, err)
	base := DefaultProvider[widget](metadata)
	qc := newQueryContext(newFormatterDB(t).NewSelect().Model((*widget)(nil)))

	conditions, err := base.Predicates(&widget{Code: "c"}, qc)
	require.NoError(t, err)
	assert.Len(t, conditions, 1)

	_, err = base.OrderBy("unknown", qc)
	assert.ErrorIs(t, err, ErrInvalidOrderByField)

	custom := ProviderWithPredicates(base, func(_ *widget, qc *QueryContext) ([]Condition, error) {
		qc.Distinct()
		return []Condition{NewCondition("1 = 1")}, nil
	})
	conditions, err = custom.Predicates(&widget{Code: "c"}, qc)
	require.NoError(t, err)
	assert.Equal(t, []Condition{NewCondition("1 = 1")}, conditions)
	assert.True(t, qc.IsDistinct())

	expr, err := custom.OrderBy("label", qc)
	require.NoError(t, err)
	assert.Equal(t, KindText, expr.Kind)

	ordered := ProviderWithOrderBy(base, func(string, *QueryContext) (Expression, error) {
		return NewExpression(KindText, "x.name"), nil
	})
	expr, err = ordered.OrderBy("anything", qc)
	require.NoError(t, err)
	assert.Equal(t, "x.name", expr.Query)
	conditions, err = ordered.Predicates(&widget{Code: "c"}, qc)
	require.NoError(t, err)
	assert.Len(t, conditions, 1)
}
