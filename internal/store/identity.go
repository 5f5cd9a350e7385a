package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecamli/monk/internal/auth"
)

// Identity returns the persisted signed-in user, or the guest identity
// when nobody is signed in.
func (s *Store) Identity() (auth.Identity, error) {
	var id auth.Identity
	err := s.db.QueryRow(
		`SELECT user_id, name, email, photo_url FROM identity WHERE id = 1`,
	).Scan(&id.ID, &id.Name, &id.Email, &id.PhotoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.GuestIdentity(), nil
	}
	if err != nil {
		return auth.GuestIdentity(), fmt.Errorf("get identity: %w", err)
	}
	return id, nil
}

// SaveIdentity persists an authenticated identity. Guest identities are
// never stored; saving one clears the row instead.
func (s *Store) SaveIdentity(id auth.Identity) error {
	if id.Guest {
		return s.ClearIdentity()
	}
	_, err := s.db.Exec(
		`INSERT INTO identity (id, user_id, name, email, photo_url)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, name = excluded.name,
		 email = excluded.email, photo_url = excluded.photo_url`,
		id.ID, id.Name, id.Email, id.PhotoURL,
	)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// ClearIdentity reverts the persisted user to guest.
func (s *Store) ClearIdentity() error {
	if _, err := s.db.Exec(`DELETE FROM identity WHERE id = 1`); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
