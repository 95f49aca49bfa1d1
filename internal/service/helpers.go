package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
)

// translateConflict maps a unique-constraint violation from the persistence
// layer onto the conflict taxonomy, leaving other errors untouched.
func translateConflict(err error, constraint string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(constraint)
	}
	return err
}
