// Package database opens the PostgreSQL pool and classifies driver errors coming
// back from PostgreSQL (lib/pq) or the SQLite driver used in tests.
package database

import (
	"errors"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

const (
	pqUndefinedColumn = "42703"
	pqUniqueViolation = "23505"
)

var missingColumnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`column "([^"]+)"(?: of relation "[^"]+")? does not exist`),
	regexp.MustCompile(`has no column named (\w+)`),
	regexp.MustCompile(`no such column: (?:\w+\.)?(\w+)`),
	regexp.MustCompile(`Could not find the '([^']+)' column`),
}

// MissingColumn reports the column named by an undefined-column error.
func MissingColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) != pqUndefinedColumn {
		return "", false
	}
	msg := err.Error()
	for _, re := range missingColumnPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
