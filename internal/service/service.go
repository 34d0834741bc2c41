// Package service holds the synchronized collection controllers. Each
// controller owns the in-process view of one remote collection and keeps it
// consistent by re-fetching the whole collection after every mutation; the
// cache is never patched incrementally from a mutation's own response.
package service

import (
	"log"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
)

// SessionSource yields the current user identity, or none.
type SessionSource interface {
	Current() (models.User, bool)
}

// SnapshotStore persists the last good cache per collection.
type SnapshotStore interface {
	Save(collection string, payload []byte) error
	Load(collection string) ([]byte, error)
}

// resolveProfile looks up a profile id for a human-readable handle (email).
// A failed lookup is lenient: the caller inserts a null foreign key instead
// of blocking the operation.
func resolveProfile(store client.RecordStore, logger *log.Logger, handle string) any {
	if handle == "" {
		return nil
	}

	rows, err := store.Select("profiles", client.Query{Eq: map[string]string{"email": handle}})
	if err != nil || len(rows) == 0 {
		logger.Printf("No profile found for %q, proceeding without a reference", handle)
		return nil
	}

	if id, ok := rows[0]["id"].(string); ok && id != "" {
		return id
	}
	return nil
}
