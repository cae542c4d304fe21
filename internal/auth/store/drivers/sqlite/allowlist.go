package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
)

const allowListColumns = `id, user_id, client_id, enabled, allowed_audiences, created_at, updated_at`

type allowListRepo struct {
	db dbtx
}

func scanEntry(row rowScanner) (domain.AllowListEntry, error) {
	var (
		e                    domain.AllowListEntry
		audiences            string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.ClientID, &e.Enabled, &audiences, &createdAt, &updatedAt); err != nil {
		return domain.AllowListEntry{}, err
	}
	e.AllowedAudiences = splitAudiences(audiences)
	e.CreatedAt = createdAt.UTC()
	e.UpdatedAt = updatedAt.UTC()
	return e, nil
}

func (r *allowListRepo) queryEntries(ctx context.Context, query string, args ...any) ([]domain.AllowListEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AllowListEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *allowListRepo) CreateEntry(ctx context.Context, e domain.AllowListEntry) error {
	updatedAt := e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = e.CreatedAt
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO allowed_clients (`+allowListColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.ClientID, e.Enabled,
		strings.Join(e.AllowedAudiences, " "),
		e.CreatedAt.UTC(), updatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *allowListRepo) GetEntryByID(ctx context.Context, id string) (domain.AllowListEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+allowListColumns+` FROM allowed_clients WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return domain.AllowListEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *allowListRepo) ListEntriesByUser(ctx context.Context, userID string) ([]domain.AllowListEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+allowListColumns+` FROM allowed_clients
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
}

func (r *allowListRepo) ListEntriesByClient(ctx context.Context, clientID string) ([]domain.AllowListEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+allowListColumns+` FROM allowed_clients
		WHERE client_id = ?
		ORDER BY created_at DESC, id DESC`, clientID)
}

func (r *allowListRepo) ListEntriesByPair(ctx context.Context, userID, clientID string) ([]domain.AllowListEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+allowListColumns+` FROM allowed_clients
		WHERE user_id = ? AND client_id = ?
		ORDER BY created_at DESC, id DESC`, userID, clientID)
}

func (r *allowListRepo) SetEntryEnabled(ctx context.Context, id string, enabled bool) error {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE allowed_clients SET enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), id))
}

func (r *allowListRepo) UpdateEntryAudiences(ctx context.Context, id string, audiences []string) error {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE allowed_clients SET allowed_audiences = ?, updated_at = ? WHERE id = ?`,
		strings.Join(audiences, " "), time.Now().UTC(), id))
}

func (r *allowListRepo) UpdateEntryClient(ctx context.Context, id string, clientID string) error {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE allowed_clients SET client_id = ?, updated_at = ? WHERE id = ?`,
		clientID, time.Now().UTC(), id))
}

func (r *allowListRepo) DeleteEntry(ctx context.Context, id string) error {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM allowed_clients WHERE id = ?`, id))
}

func (r *allowListRepo) DeleteEntriesByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM allowed_clients WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
