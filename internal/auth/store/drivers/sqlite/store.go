package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	_ "modernc.org/sqlite"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the repos run the same
// queries inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite implementation of store.Store.
type Store struct {
	db *sql.DB
}

// connPragmas run once on open. Foreign keys are off by default in SQLite.
var connPragmas = []string{
	`PRAGMA foreign_keys = ON`,
}

// FileDSN returns the DSN for a database file. Pragmas use the
// modernc.org/sqlite _pragma form so they apply to every pooled connection.
func FileDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// NewStore opens the database at dsn. Use "file::memory:" (or any DSN with
// mode=memory) for a throwaway database in tests.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Each new connection to an in-memory DSN opens an empty database.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	for _, p := range connPragmas {
		if _, err := db.ExecContext(context.Background(), p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an already opened database handle. The caller owns
// any connection setup (pragmas, pool sizing).
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error                   { return s.db.Close() }
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Tx begins a transaction. The returned Tx must be committed or rolled back.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx runs fn in a transaction and commits when fn returns nil. Revocation
// and session upserts rely on this to keep the session rows and the token
// revocations they trigger consistent.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	// Rollback after Commit returns sql.ErrTxDone and is ignored.
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Sessions() store.Sessions   { return &sessionsRepo{db: s.db} }
func (s *Store) AllowList() store.AllowList { return &allowListRepo{db: s.db} }
func (s *Store) Tokens() store.Tokens       { return &tokensRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func fromNullString(ns sql.NullString) string { return ns.String }

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// splitAudiences reads the space separated audiences column, keeping the
// first occurrence of each value.
func splitAudiences(s string) []string {
	var out []string
	for _, aud := range strings.Fields(s) {
		if !slices.Contains(out, aud) {
			out = append(out, aud)
		}
	}
	return out
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// rowsAffected maps a zero-row write to store.ErrNotFound.
func rowsAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
