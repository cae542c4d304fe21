package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
)

const tokenColumns = `id, reference_hash, subject, application_id, client_id, status, expires_at, created_at, updated_at`

type tokensRepo struct {
	db dbtx
}

func scanToken(row rowScanner) (domain.Token, error) {
	var (
		t                               domain.Token
		status                          string
		expiresAt, createdAt, updatedAt time.Time
	)
	err := row.Scan(&t.ID, &t.ReferenceHash, &t.Subject, &t.ApplicationID, &t.ClientID,
		&status, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.Token{}, err
	}
	t.Status = domain.TokenStatus(status)
	t.ExpiresAt = expiresAt.UTC()
	t.CreatedAt = createdAt.UTC()
	t.UpdatedAt = updatedAt.UTC()
	return t, nil
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	status := t.Status
	if status == "" {
		status = domain.TokenStatusValid
	}
	now := time.Now().UTC()
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (`+tokenColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ReferenceHash, t.Subject, t.ApplicationID, t.ClientID,
		string(status), t.ExpiresAt.UTC(), createdAt.UTC(), now,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *tokensRepo) GetTokenByID(ctx context.Context, id string) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE id = ?`, id)
	t, err := scanToken(row)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) GetTokenByReferenceHash(ctx context.Context, hash string) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE reference_hash = ?`, hash)
	t, err := scanToken(row)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) RevokeToken(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET status = ?, updated_at = ? WHERE id = ? AND status <> ?`,
		string(domain.TokenStatusRevoked), time.Now().UTC(), id, string(domain.TokenStatusRevoked),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// Distinguish "already revoked" from "unknown id".
	if _, err := r.GetTokenByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
