package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
)

const sessionColumns = `id, user_id, client_id, device_id, device_name, platform,
	ip_address, user_agent, token_correlation_id, is_active, is_revoked,
	created_at, last_seen_at, revoked_at, version`

type sessionsRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		s                               domain.Session
		name, platform, ip, ua, tokenID sql.NullString
		revokedAt                       sql.NullTime
		createdAt, lastSeenAt           time.Time
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.ClientID, &s.DeviceID, &name, &platform,
		&ip, &ua, &tokenID, &s.IsActive, &s.IsRevoked,
		&createdAt, &lastSeenAt, &revokedAt, &s.Version,
	)
	if err != nil {
		return domain.Session{}, err
	}

	s.DeviceName = fromNullString(name)
	s.Platform = fromNullString(platform)
	s.IPAddress = fromNullString(ip)
	s.UserAgent = fromNullString(ua)
	s.TokenCorrelationID = fromNullString(tokenID)
	s.CreatedAt = createdAt.UTC()
	s.LastSeenAt = lastSeenAt.UTC()
	s.RevokedAt = fromNullTime(revokedAt)
	return s, nil
}

func (r *sessionsRepo) querySessions(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) GetSessionByKey(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = ? AND client_id = ? AND device_id = ?
		ORDER BY last_seen_at DESC, id DESC
		LIMIT 1`,
		key.UserID, key.ClientID, key.DeviceID,
	)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) GetLiveSession(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = ? AND client_id = ? AND device_id = ?
		  AND is_active = 1 AND is_revoked = 0
		ORDER BY last_seen_at DESC, id DESC
		LIMIT 1`,
		key.UserID, key.ClientID, key.DeviceID,
	)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) ListLiveSessionsByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	return r.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = ? AND is_active = 1 AND is_revoked = 0
		ORDER BY last_seen_at DESC, id DESC`,
		userID,
	)
}

func (r *sessionsRepo) SelectLiveSessions(ctx context.Context, sel domain.SessionSelector) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE user_id = ? AND is_active = 1 AND is_revoked = 0`
	args := []any{sel.UserID}

	if sel.ClientID != "" {
		query += ` AND client_id = ?`
		args = append(args, sel.ClientID)
	}
	if sel.DeviceID != "" {
		query += ` AND device_id = ?`
		args = append(args, sel.DeviceID)
	}
	if sel.ExceptClientID != "" {
		query += ` AND client_id <> ?`
		args = append(args, sel.ExceptClientID)
	}
	query += ` ORDER BY created_at, id`

	return r.querySessions(ctx, query, args...)
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	version := s.Version
	if version == 0 {
		version = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.ClientID, s.DeviceID,
		toNullString(s.DeviceName), toNullString(s.Platform),
		toNullString(s.IPAddress), toNullString(s.UserAgent),
		toNullString(s.TokenCorrelationID),
		s.IsActive, s.IsRevoked,
		s.CreatedAt.UTC(), s.LastSeenAt.UTC(), toNullTime(s.RevokedAt),
		version,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *sessionsRepo) UpdateSession(ctx context.Context, s domain.Session) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET
			device_name = ?, platform = ?, ip_address = ?, user_agent = ?,
			token_correlation_id = ?, is_active = ?, is_revoked = ?,
			last_seen_at = ?, revoked_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		toNullString(s.DeviceName), toNullString(s.Platform),
		toNullString(s.IPAddress), toNullString(s.UserAgent),
		toNullString(s.TokenCorrelationID), s.IsActive, s.IsRevoked,
		s.LastSeenAt.UTC(), toNullTime(s.RevokedAt),
		s.ID, s.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *sessionsRepo) RevokeSessions(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, at.UTC())
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET
			is_active = 0, is_revoked = 1, revoked_at = ?, version = version + 1
		WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id string, at time.Time) error {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = ? WHERE id = ?`, at.UTC(), id))
}

func (r *sessionsRepo) DeleteRevokedSessionsBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE is_revoked = 1 AND revoked_at < ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
