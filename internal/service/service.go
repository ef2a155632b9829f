package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/acme_store/internal/apperr"
	"github.com/Skotchmaster/acme_store/internal/repo"
)

// classify turns a storage error into an apperr kind. what names the entity
// for not-found messages.
func classify(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
	case errors.Is(err, repo.ErrCartNotFound):
		return fmt.Errorf("%w: no such cart", apperr.ErrNotFound)
	case errors.Is(err, repo.ErrProductNotFound):
		return fmt.Errorf("%w: no such product", apperr.ErrNotFound)
	case errors.Is(err, repo.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", apperr.ErrConflict, what)
	default:
		return fmt.Errorf("%w: %w", apperr.ErrInternal, err)
	}
}
