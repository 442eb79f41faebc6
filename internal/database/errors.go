package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, e.g. a second registration of the same user for an event.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key
// violation, e.g. a registration for an event that has been deleted.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
