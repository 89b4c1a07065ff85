package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")

	ErrInvalidCursor = errors.New("invalid cursor")
)

// DuplicateKeyError names the unique column an insert collided on.
type DuplicateKeyError struct {
	Field      string
	Constraint string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

const pqUniqueViolation = "23505"

// constraint names come from pkg/database/migrations
var uniqueConstraintFields = map[string]string{
	"members_email_key":         "email",
	"members_member_id_key":     "member_id",
	"members_serial_number_key": "serial_number",
	"users_email_key":           "email",
}

// DuplicateField reports the colliding field of a duplicate-key error.
func DuplicateField(err error) (string, bool) {
	var dupErr *DuplicateKeyError
	if errors.As(err, &dupErr) {
		return dupErr.Field, true
	}
	return "", false
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		field, ok := uniqueConstraintFields[pqErr.Constraint]
		if !ok {
			field = pqErr.Constraint
		}
		return &DuplicateKeyError{Field: field, Constraint: pqErr.Constraint}
	}

	return err
}
