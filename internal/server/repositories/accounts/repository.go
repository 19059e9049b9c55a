package accounts

import (
	"context"

	"github.com/kotoba-app/kotoba/internal/server/models"
)

type Repository interface {
	// GetByID returns the account, or common.ErrNotFound when it does not
	// exist.
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
