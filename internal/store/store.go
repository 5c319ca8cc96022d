// Package store persists goals, habits, tasks and finance records with gorm
// and implements the collaborator interfaces the wizard depends on.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
