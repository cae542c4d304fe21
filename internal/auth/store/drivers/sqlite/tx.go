package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
)

// txStore runs every repo against one *sql.Tx. Transactions do not nest:
// Tx and WithTx fail with sql.ErrTxDone.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore { return &txStore{tx: tx} }

func (t *txStore) Sessions() store.Sessions   { return &sessionsRepo{db: t.tx} }
func (t *txStore) AllowList() store.AllowList { return &allowListRepo{db: t.tx} }
func (t *txStore) Tokens() store.Tokens       { return &tokensRepo{db: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Tx(context.Context) (store.Tx, error)                  { return nil, sql.ErrTxDone }
func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error { return sql.ErrTxDone }

// The outer Store owns the connection and the schema.
func (t *txStore) ApplyMigrations() error     { return nil }
func (t *txStore) Ping(context.Context) error { return nil }
func (t *txStore) Close() error               { return nil }
