package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"pg_23505", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped_pg_23505", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"gorm_duplicated", gorm.ErrDuplicatedKey, true},
		{"pg_other", &pgconn.PgError{Code: "23502"}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}
