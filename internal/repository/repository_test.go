package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/CBCC/team-dashboard/internal/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotSaveAndLoad(t *testing.T) {
	repo := NewSnapshotRepository(testDB(t))

	if err := repo.Save("tasks", []byte(`[{"id":"t-1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	payload, err := repo.Load("tasks")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(payload) != `[{"id":"t-1"}]` {
		t.Fatalf("unexpected payload %q", payload)
	}
}

func TestSnapshotOverwritesExisting(t *testing.T) {
	repo := NewSnapshotRepository(testDB(t))

	if err := repo.Save("events", []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save("events", []byte(`[{"id":"ev-1"}]`)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	payload, err := repo.Load("events")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(payload) != `[{"id":"ev-1"}]` {
		t.Fatalf("expected the second payload, got %q", payload)
	}
}

func TestSnapshotMissingCollection(t *testing.T) {
	repo := NewSnapshotRepository(testDB(t))

	payload, err := repo.Load("teams")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if payload != nil {
		t.Fatalf("expected nil payload, got %q", payload)
	}
}

func TestSnapshotCollectionsAreIndependent(t *testing.T) {
	repo := NewSnapshotRepository(testDB(t))

	if err := repo.Save("tasks", []byte(`[1]`)); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	if err := repo.Save("teams", []byte(`[2]`)); err != nil {
		t.Fatalf("save teams: %v", err)
	}

	tasks, _ := repo.Load("tasks")
	teams, _ := repo.Load("teams")
	if string(tasks) != `[1]` || string(teams) != `[2]` {
		t.Fatalf("collections mixed: tasks=%q teams=%q", tasks, teams)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	user := models.User{
		Id:    "user-1",
		Name:  "Admin",
		Email: "admin@campusbinge.com",
		Role:  models.RoleMaster,
	}
	if err := repo.SaveSession(user); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, found, err := repo.LoadSession()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatalf("expected a stored session")
	}
	if loaded.Id != "user-1" || loaded.Email != "admin@campusbinge.com" || loaded.Role != models.RoleMaster {
		t.Fatalf("unexpected user %+v", loaded)
	}
}

func TestSessionReplacesPreviousUser(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	if err := repo.SaveSession(models.User{Id: "user-1", Email: "first@campusbinge.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveSession(models.User{Id: "user-2", Email: "second@campusbinge.com"}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	loaded, found, err := repo.LoadSession()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found || loaded.Id != "user-2" {
		t.Fatalf("expected the second user, got %+v", loaded)
	}
}

func TestSessionClear(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	if err := repo.SaveSession(models.User{Id: "user-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.ClearSession(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	_, found, err := repo.LoadSession()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected no session after clear")
	}
}

func TestSessionMissing(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	_, found, err := repo.LoadSession()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected no session in a fresh database")
	}
}
