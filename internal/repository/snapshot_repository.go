package repository

import (
	"database/sql"
	"fmt"
)

// SnapshotRepository persists the last successfully normalized cache of each
// collection, so a restart with the remote store unreachable can still show
// stale-but-available data.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Save(collection string, payload []byte) error {
	query := `
	INSERT INTO snapshots (collection, payload, saved_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(collection) DO UPDATE SET payload = excluded.payload, saved_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.Exec(query, collection, string(payload))
	if err != nil {
		return fmt.Errorf("Error trying to save snapshot for %s: %w", collection, err)
	}

	return nil
}

// Load returns the stored payload for a collection, or nil when none exists.
func (r *SnapshotRepository) Load(collection string) ([]byte, error) {
	query := `SELECT payload FROM snapshots WHERE collection = ?`

	var payload string
	err := r.db.QueryRow(query, collection).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Error trying to load snapshot for %s: %w", collection, err)
	}

	return []byte(payload), nil
}
