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
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLError is a driver-independent classification of a database error.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoColumnErr
	NoTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

func (e SQLError) String() string {
	switch e {
	case NoRowsErr:
		return "no_rows"
	case NoColumnErr:
		return "no_column"
	case NoTableErr:
		return "no_table"
	case DuplicateKeyErr:
		return "duplicate_key"
	case NotNullViolationErr:
		return "not_null_violation"
	case ForeignKeyViolationErr:
		return "foreign_key_violation"
	case CheckConstraintViolationErr:
		return "check_violation"
	case DataTruncatedErr:
		return "data_truncated"
	case InvalidTypeCastErr:
		return "invalid_type_cast"
	default:
		return "unknown"
	}
}

// Classify maps a mysql, postgres or sqlite error to a SQLError. The boolean
// is false when err was not recognised as a database error.
func Classify(err error) (bool, SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1054:
			return true, NoColumnErr
		case 1146:
			return true, NoTableErr
		case 1062:
			return true, DuplicateKeyErr
		case 1048:
			return true, NotNullViolationErr
		case 1216, 1217, 1451, 1452:
			return true, ForeignKeyViolationErr
		case 3819:
			return true, CheckConstraintViolationErr
		case 1265, 1406:
			return true, DataTruncatedErr
		default:
			return true, UnknownErr
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42703":
			return true, NoColumnErr
		case "42P01":
			return true, NoTableErr
		case "23505":
			return true, DuplicateKeyErr
		case "23502":
			return true, NotNullViolationErr
		case "23503":
			return true, ForeignKeyViolationErr
		case "23514":
			return true, CheckConstraintViolationErr
		case "22001":
			return true, DataTruncatedErr
		case "42804":
			return true, InvalidTypeCastErr
		default:
			return true, UnknownErr
		}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "no such column"), strings.Contains(s, "undefined column"):
		return true, NoColumnErr
	case strings.Contains(s, "no such table"), strings.Contains(s, "undefined table"):
		return true, NoTableErr
	case strings.Contains(s, "unique constraint failed"),
		strings.Contains(s, "duplicate key value"),
		strings.Contains(s, "sqlstate 23505"):
		return true, DuplicateKeyErr
	case strings.Contains(s, "not null constraint failed"), strings.Contains(s, "sqlstate 23502"):
		return true, NotNullViolationErr
	case strings.Contains(s, "foreign key constraint failed"), strings.Contains(s, "sqlstate 23503"):
		return true, ForeignKeyViolationErr
	case strings.Contains(s, "check constraint"), strings.Contains(s, "sqlstate 23514"):
		return true, CheckConstraintViolationErr
	case strings.Contains(s, "data truncated"), strings.Contains(s, "sqlstate 22001"):
		return true, DataTruncatedErr
	case strings.Contains(s, "datatype mismatch"), strings.Contains(s, "sqlstate 42804"):
		return true, InvalidTypeCastErr
	}
	return false, UnknownErr
}

// IsDuplicateKey reports whether err is a uniqueness violation.
func IsDuplicateKey(err error) bool {
	ok, kind := Classify(err)
	return ok && kind == DuplicateKeyErr
}
