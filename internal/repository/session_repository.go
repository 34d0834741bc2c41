package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/CBCC/team-dashboard/internal/models"
)

// SessionRepository persists the signed-in user across restarts. A single
// row is kept; signing out clears it.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) SaveSession(user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("Error trying to encode session: %w", err)
	}

	query := `
	INSERT INTO sessions (id, payload, saved_at)
	VALUES (1, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = CURRENT_TIMESTAMP
	`

	_, err = r.db.Exec(query, string(payload))
	if err != nil {
		return fmt.Errorf("Error trying to save session: %w", err)
	}

	return nil
}

func (r *SessionRepository) LoadSession() (models.User, bool, error) {
	query := `SELECT payload FROM sessions WHERE id = 1`

	var payload string
	err := r.db.QueryRow(query).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("Error trying to load session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return models.User{}, false, fmt.Errorf("Error trying to decode session: %w", err)
	}

	return user, true, nil
}

func (r *SessionRepository) ClearSession() error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("Error trying to clear session: %w", err)
	}
	return nil
}
