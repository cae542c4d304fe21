package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	"github.com/aussiebroadwan/sessiongate/pkg/idx"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
)

// AllowListService gates which clients a user may sign in to. Disabling or
// removing a grant revokes the sessions it covered before returning.
type AllowListService struct {
	Store      store.Store
	Revocation Revoker
	Now        func() time.Time
}

func (s *AllowListService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Add grants the user access to the client. Only one enabled entry may
// exist per (user, client) pair.
func (s *AllowListService) Add(ctx context.Context, userID, clientID string, audiences []string) (domain.AllowListEntry, error) {
	userID = strings.TrimSpace(userID)
	clientID = strings.TrimSpace(clientID)
	if userID == "" || clientID == "" {
		return domain.AllowListEntry{}, ErrInvalidRequest
	}
	auds, err := normalizeAudiences(audiences)
	if err != nil {
		return domain.AllowListEntry{}, err
	}

	now := s.now()
	entry := domain.AllowListEntry{
		ID:               idx.New().String(),
		UserID:           userID,
		ClientID:         clientID,
		Enabled:          true,
		AllowedAudiences: auds,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := ensureNoEnabledEntry(ctx, tx, userID, clientID, ""); err != nil {
			return err
		}
		return tx.AllowList().CreateEntry(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.AllowListEntry{}, ErrConflict
		}
		return domain.AllowListEntry{}, err
	}

	slogx.FromContext(ctx).Info("allow-list entry added", "entry_id", entry.ID, "user_id", userID, "client_id", clientID)
	return entry, nil
}

func (s *AllowListService) Get(ctx context.Context, id string) (domain.AllowListEntry, error) {
	e, err := s.Store.AllowList().GetEntryByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AllowListEntry{}, ErrNotFound
	}
	return e, err
}

// Enable re-enables an entry. It fails with ErrConflict when another
// enabled entry already governs the pair.
func (s *AllowListService) Enable(ctx context.Context, id string) (domain.AllowListEntry, error) {
	var entry domain.AllowListEntry
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		e, err := tx.AllowList().GetEntryByID(ctx, id)
		if err != nil {
			return err
		}
		if !e.Enabled {
			if err := ensureNoEnabledEntry(ctx, tx, e.UserID, e.ClientID, e.ID); err != nil {
				return err
			}
			if err := tx.AllowList().SetEntryEnabled(ctx, e.ID, true); err != nil {
				return err
			}
			e.Enabled = true
		}
		entry = e
		return nil
	})
	if err != nil {
		return domain.AllowListEntry{}, mapStoreErr(err)
	}
	return entry, nil
}

// Disable turns the entry off and revokes the user's sessions on the client.
func (s *AllowListService) Disable(ctx context.Context, id string) (domain.AllowListEntry, domain.RevocationResult, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return domain.AllowListEntry{}, domain.RevocationResult{}, err
	}

	if e.Enabled {
		if err := s.Store.AllowList().SetEntryEnabled(ctx, e.ID, false); err != nil {
			return domain.AllowListEntry{}, domain.RevocationResult{}, mapStoreErr(err)
		}
		e.Enabled = false
	}

	res, err := s.Revocation.RevokeByClient(ctx, e.UserID, e.ClientID)
	if err != nil {
		return e, domain.RevocationResult{}, fmt.Errorf("disable allow-list entry: %w", err)
	}

	slogx.FromContext(ctx).Info("allow-list entry disabled",
		"entry_id", e.ID, "sessions_revoked", res.SessionsRevoked)
	return e, res, nil
}

// Remove revokes the sessions the entry covered and then deletes it. When
// the revocation fails the entry is kept.
func (s *AllowListService) Remove(ctx context.Context, id string) (domain.RevocationResult, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return domain.RevocationResult{}, err
	}

	res, err := s.Revocation.RevokeByClient(ctx, e.UserID, e.ClientID)
	if err != nil {
		return domain.RevocationResult{}, fmt.Errorf("remove allow-list entry: %w", err)
	}

	if err := s.Store.AllowList().DeleteEntry(ctx, e.ID); err != nil {
		return res, mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("allow-list entry removed",
		"entry_id", e.ID, "sessions_revoked", res.SessionsRevoked)
	return res, nil
}

// RemoveAllForUser revokes every session of the user and deletes all of
// their entries. Nothing is deleted when the revocation fails.
func (s *AllowListService) RemoveAllForUser(ctx context.Context, userID string) (domain.RevocationResult, int64, error) {
	if blank(userID) {
		return domain.RevocationResult{}, 0, ErrInvalidRequest
	}

	res, err := s.Revocation.RevokeAllForUser(ctx, userID)
	if err != nil {
		return domain.RevocationResult{}, 0, fmt.Errorf("remove allow-list entries: %w", err)
	}

	n, err := s.Store.AllowList().DeleteEntriesByUser(ctx, userID)
	if err != nil {
		return res, 0, err
	}
	return res, n, nil
}

// Resolve returns the entry that governs the pair: the most recently
// created enabled one. ErrNotAllowed when there is none.
func (s *AllowListService) Resolve(ctx context.Context, userID, clientID string) (domain.AllowListEntry, error) {
	if blank(userID, clientID) {
		return domain.AllowListEntry{}, ErrInvalidRequest
	}

	entries, err := s.Store.AllowList().ListEntriesByPair(ctx, userID, clientID)
	if err != nil {
		return domain.AllowListEntry{}, err
	}
	for _, e := range entries {
		if e.Enabled {
			return e, nil
		}
	}
	return domain.AllowListEntry{}, ErrNotAllowed
}

func (s *AllowListService) ListByUser(ctx context.Context, userID string) ([]domain.AllowListEntry, error) {
	return s.Store.AllowList().ListEntriesByUser(ctx, userID)
}

func (s *AllowListService) ListByClient(ctx context.Context, clientID string) ([]domain.AllowListEntry, error) {
	return s.Store.AllowList().ListEntriesByClient(ctx, clientID)
}

// UpdateAudiences replaces the audiences tokens under the entry carry.
func (s *AllowListService) UpdateAudiences(ctx context.Context, id string, audiences []string) (domain.AllowListEntry, error) {
	auds, err := normalizeAudiences(audiences)
	if err != nil {
		return domain.AllowListEntry{}, err
	}
	if err := s.Store.AllowList().UpdateEntryAudiences(ctx, id, auds); err != nil {
		return domain.AllowListEntry{}, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

// Rebind moves the entry from one client to another and revokes the
// sessions left behind on the old client.
func (s *AllowListService) Rebind(ctx context.Context, id, fromClientID, toClientID string) (domain.AllowListEntry, domain.RevocationResult, error) {
	fromClientID = strings.TrimSpace(fromClientID)
	toClientID = strings.TrimSpace(toClientID)
	if fromClientID == "" || toClientID == "" || fromClientID == toClientID {
		return domain.AllowListEntry{}, domain.RevocationResult{}, ErrInvalidRequest
	}

	var entry domain.AllowListEntry
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		e, err := tx.AllowList().GetEntryByID(ctx, id)
		if err != nil {
			return err
		}
		if e.ClientID != fromClientID {
			return ErrConflict
		}
		if err := ensureNoEnabledEntry(ctx, tx, e.UserID, toClientID, e.ID); err != nil {
			return err
		}
		if err := tx.AllowList().UpdateEntryClient(ctx, e.ID, toClientID); err != nil {
			return err
		}
		e.ClientID = toClientID
		entry = e
		return nil
	})
	if err != nil {
		return domain.AllowListEntry{}, domain.RevocationResult{}, mapStoreErr(err)
	}

	res, err := s.Revocation.RevokeByClient(ctx, entry.UserID, fromClientID)
	if err != nil {
		return entry, domain.RevocationResult{}, fmt.Errorf("rebind allow-list entry: %w", err)
	}

	slogx.FromContext(ctx).Info("allow-list entry rebound",
		"entry_id", entry.ID, "from_client_id", fromClientID, "to_client_id", toClientID,
		"sessions_revoked", res.SessionsRevoked)
	return entry, res, nil
}

// ensureNoEnabledEntry fails with ErrConflict when the pair already has an
// enabled entry other than exceptID.
func ensureNoEnabledEntry(ctx context.Context, tx store.Tx, userID, clientID, exceptID string) error {
	entries, err := tx.AllowList().ListEntriesByPair(ctx, userID, clientID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Enabled && e.ID != exceptID {
			return ErrConflict
		}
	}
	return nil
}

// normalizeAudiences trims and de-duplicates audiences, keeping their order.
// Audiences are stored space-delimited so they may not contain whitespace.
func normalizeAudiences(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if strings.IndexFunc(a, unicode.IsSpace) >= 0 {
			return nil, ErrInvalidRequest
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, store.ErrConflict):
		return ErrConflict
	default:
		return err
	}
}
