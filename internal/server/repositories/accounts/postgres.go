package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, email, role, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var a models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	return &a, nil
}
