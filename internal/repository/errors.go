package repository

import (
	"errors"

	"gorm.io/gorm"

	"tourlog/internal/database"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column already holds the value
	ErrDuplicate = errors.New("duplicate value")
)

// translate maps driver/ORM errors onto the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case database.IsUniqueViolation(err):
		return errors.Join(ErrDuplicate, err)
	default:
		return err
	}
}
