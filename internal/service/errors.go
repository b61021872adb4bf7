package service

import (
	"errors"
	"esc-cup/internal/apperr"
	"esc-cup/internal/repository"
)

// storeError classifies a repository failure. Errors already carrying a kind pass through.
func storeError(err error, what string, id int64) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrMatchNotFound):
		return apperr.NotFound("match %d not found", id)
	case errors.Is(err, repository.ErrTeamNotFound):
		return apperr.NotFound("team %d not found", id)
	case errors.Is(err, repository.ErrPlayerNotFound):
		return apperr.NotFound("player %d not found", id)
	default:
		return apperr.Internal("failed to "+what, err)
	}
}
