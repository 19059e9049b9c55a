// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/migrations"
	"github.com/kotoba-app/kotoba/internal/server/repositories/accountcards"
	"github.com/kotoba-app/kotoba/internal/server/repositories/accounts"
	"github.com/kotoba-app/kotoba/internal/server/repositories/cards"
	"github.com/kotoba-app/kotoba/internal/server/repositories/decksettings"
	"github.com/kotoba-app/kotoba/internal/server/repositories/reviews"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Cards returns a cards.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Cards(db dbx.DBTX) cards.Repository {
	return cards.NewPostgresRepository(db)
}

// AccountCards returns an accountcards.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) AccountCards(db dbx.DBTX) accountcards.Repository {
	return accountcards.NewPostgresRepository(db)
}

// Reviews returns a reviews.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Reviews(db dbx.DBTX) reviews.Repository {
	return reviews.NewPostgresRepository(db)
}

// DeckSettings returns a decksettings.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) DeckSettings(db dbx.DBTX) decksettings.Repository {
	return decksettings.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}
