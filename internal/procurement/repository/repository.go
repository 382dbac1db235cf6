package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories groups the procurement repositories.
type Repositories struct {
	PR *PRRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		PR: NewPRRepository(db),
	}
}
