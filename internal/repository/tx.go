package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coverage-api/pkg/database"
)

// TxManager runs repository calls inside a single database transaction.
type TxManager struct {
	db *sqlx.DB
}

// NewTxManager constructs a TxManager.
func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTx executes fn with a transaction-bound executor.
func (m *TxManager) WithTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	return database.WithTx(ctx, m.db, func(tx *sqlx.Tx) error {
		return fn(tx)
	})
}
