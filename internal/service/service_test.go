package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
)

// fakeStore is an in-memory stand-in for the remote record store. Payloads
// are round-tripped through JSON so rows come back in the same loosely-typed
// shape the real store produces.
type fakeStore struct {
	mu          sync.Mutex
	collections map[string][]client.Row

	failEmbeds bool // joined selects report a broken relation
	failAll    bool // every select fails
	failMutate bool // inserts/updates/deletes are rejected

	selectCalls  int
	lastUpdateId string
	lastUpdate   client.Row

	nextId int
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: map[string][]client.Row{}}
}

func (f *fakeStore) seed(collection string, rows ...client.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[collection] = append(f.collections[collection], rows...)
}

func (f *fakeStore) Select(collection string, query client.Query) ([]client.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectCalls++

	if f.failAll {
		return nil, errors.New("store unavailable")
	}
	if f.failEmbeds && len(query.Embeds) > 0 {
		return nil, errors.New("could not find a relationship between the tables")
	}

	rows := []client.Row{}
	for _, row := range f.collections[collection] {
		if matches(row, query.Eq) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeStore) Insert(collection string, payload client.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMutate {
		return errors.New("insert rejected")
	}

	row, err := roundTrip(payload)
	if err != nil {
		return err
	}
	f.nextId++
	row["id"] = fmt.Sprintf("row-%d", f.nextId)
	f.collections[collection] = append(f.collections[collection], row)
	return nil
}

func (f *fakeStore) Update(collection string, id string, changes client.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMutate {
		return errors.New("update rejected")
	}

	row, err := roundTrip(changes)
	if err != nil {
		return err
	}
	f.lastUpdateId = id
	f.lastUpdate = row

	for _, existing := range f.collections[collection] {
		if existing["id"] == id {
			for key, value := range row {
				existing[key] = value
			}
			return nil
		}
	}
	return errors.New("no row with id " + id)
}

func (f *fakeStore) Delete(collection string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMutate {
		return errors.New("delete rejected")
	}

	kept := []client.Row{}
	for _, row := range f.collections[collection] {
		if row["id"] != id {
			kept = append(kept, row)
		}
	}
	f.collections[collection] = kept
	return nil
}

func matches(row client.Row, eq map[string]string) bool {
	for field, want := range eq {
		if fmt.Sprint(row[field]) != want {
			return false
		}
	}
	return true
}

func roundTrip(payload client.Row) (client.Row, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var row client.Row
	if err := json.Unmarshal(encoded, &row); err != nil {
		return nil, err
	}
	return row, nil
}

type fakeSession struct {
	user *models.User
}

func signedIn() fakeSession {
	return fakeSession{user: &models.User{
		Id:    "user-1",
		Email: "admin@campusbinge.com",
		Name:  "Admin",
		Role:  models.RoleMaster,
	}}
}

func signedOut() fakeSession {
	return fakeSession{}
}

func (s fakeSession) Current() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// memorySnapshots implements SnapshotStore without touching sqlite.
type memorySnapshots struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{payloads: map[string][]byte{}}
}

func (m *memorySnapshots) Save(collection string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[collection] = append([]byte{}, payload...)
	return nil
}

func (m *memorySnapshots) Load(collection string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payloads[collection], nil
}

func containsTask(tasks []models.Task, title string) bool {
	for _, task := range tasks {
		if strings.Contains(task.Title, title) {
			return true
		}
	}
	return false
}
