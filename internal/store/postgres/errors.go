// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Storage error taxonomy. Repositories never surface raw driver errors:
// every failure is either a domain sentinel (owned by the domain package)
// or one of these, wrapped with the driver's message for the server log.
var (
	ErrConnectionLost      = errors.New("database connection lost")
	ErrConstraintViolation = errors.New("database constraint violation")
	ErrSyntaxOrSchema      = errors.New("sql syntax or schema error")
)

// normalize maps a pgx error onto the storage taxonomy by SQLSTATE class.
// Errors with no PgError (context cancellation, pool exhaustion) pass
// through unchanged.
func normalize(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case strings.HasPrefix(pgErr.Code, "08"): // connection exception
		return fmt.Errorf("%w: %s", ErrConnectionLost, pgErr.Message)
	case strings.HasPrefix(pgErr.Code, "23"): // integrity constraint violation
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pgErr.Message)
	case strings.HasPrefix(pgErr.Code, "42"), strings.HasPrefix(pgErr.Code, "26"):
		return fmt.Errorf("%w: %s", ErrSyntaxOrSchema, pgErr.Message)
	default:
		return err
	}
}

// violatesConstraint reports whether err is a unique violation on the named
// constraint or index, letting repositories translate specific conflicts
// into domain sentinels.
func violatesConstraint(err error, name string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == name
}
