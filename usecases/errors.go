package usecases

import (
	"errors"
	"fmt"

	"starwars-api/apperror"
	"starwars-api/repositories"
)

// storeError converts a repository error into an AppError. what names the
// entity for the message, e.g. "Character".
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperror.NewNotFoundError(fmt.Sprintf("%s not found", what), err)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperror.NewConflictError(fmt.Sprintf("%s already exists", what), err)
	default:
		return apperror.NewInternalError(fmt.Sprintf("Failed to access %s store", what), err)
	}
}
