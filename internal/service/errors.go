package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotAllowed   = errors.New("operation not allowed")
)

// resolveErr translates a repository lookup failure into a NotFound error
// naming the entity kind and id, leaving other failures opaque.
func resolveErr(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return err
}

// writeErr translates a duplicate-key failure raised by the storage-level
// unique constraints into the same conflict error the pre-write probes
// produce, so a lost race still surfaces as a conflict.
func writeErr(err error, detail string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	}
	return err
}
