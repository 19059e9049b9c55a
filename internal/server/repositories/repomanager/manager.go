package repomanager

import (
	"context"
	"database/sql"

	"github.com/kotoba-app/kotoba/internal/dbx"
	"github.com/kotoba-app/kotoba/internal/server/repositories/accountcards"
	"github.com/kotoba-app/kotoba/internal/server/repositories/accounts"
	"github.com/kotoba-app/kotoba/internal/server/repositories/cards"
	"github.com/kotoba-app/kotoba/internal/server/repositories/decksettings"
	"github.com/kotoba-app/kotoba/internal/server/repositories/reviews"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Cards(db dbx.DBTX) cards.Repository
	AccountCards(db dbx.DBTX) accountcards.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	DeckSettings(db dbx.DBTX) decksettings.Repository
}
