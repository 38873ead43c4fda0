package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMissingColumn(t *testing.T) {
	cases := []struct {
		err    error
		column string
		ok     bool
	}{
		{&pq.Error{Code: "42703", Message: `column "notes" of relation "orders" does not exist`}, "notes", true},
		{fmt.Errorf("insert: %w", &pq.Error{Code: "42703", Message: `column "customer_phone" of relation "orders" does not exist`}), "customer_phone", true},
		{errors.New("table orders has no column named notes"), "notes", true},
		{errors.New("SQL logic error: table orders has no column named customer_phone (1)"), "customer_phone", true},
		{&pq.Error{Code: "23505", Message: `column "x" does not exist`}, "", false},
		{errors.New("connection refused"), "", false},
		{nil, "", false},
	}
	for _, tc := range cases {
		column, ok := MissingColumn(tc.err)
		assert.Equal(t, tc.ok, ok, "%v", tc.err)
		assert.Equal(t, tc.column, column, "%v", tc.err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "42703"}))
	assert.False(t, IsUniqueViolation(nil))
}
