package database

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("authentication required")
	ErrSelfFollow      = errors.New("users cannot follow themselves")
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyReported = errors.New("review already reported")
)

// Maps gorm's missing row error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
