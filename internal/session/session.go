// Package session holds the current user identity for the process: either a
// signed-in user or none. Collections that require an identity check here
// before loading.
package session

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
)

// InviteCode gates signup. Checked locally before the auth request is made.
const InviteCode = "CBCC2024"

// Store persists the session across restarts.
type Store interface {
	SaveSession(user models.User) error
	LoadSession() (models.User, bool, error)
	ClearSession() error
}

// TokenSink is implemented by gateways that can act under the signed-in
// user's access token instead of the anon key.
type TokenSink interface {
	SetAuthToken(token string)
}

type Manager struct {
	auth   client.AuthProvider
	store  Store
	logger *log.Logger

	mu   sync.RWMutex
	user *models.User
}

func NewManager(auth client.AuthProvider, store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(os.Stderr, "[session] ", log.LstdFlags)
	}
	return &Manager{
		auth:   auth,
		store:  store,
		logger: logger,
	}
}

// Restore loads a previously persisted session, if any. Restore failures are
// logged and treated as signed-out rather than surfaced.
func (m *Manager) Restore() {
	if m.store == nil {
		return
	}
	user, ok, err := m.store.LoadSession()
	if err != nil {
		m.logger.Printf("Could not restore session: %v", err)
		return
	}
	if !ok {
		return
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	m.logger.Printf("Restored session for %s", user.Email)
}

func (m *Manager) SignIn(email, password string) (models.User, error) {
	sess, err := m.auth.SignIn(email, password)
	if err != nil {
		return models.User{}, fmt.Errorf("Error trying to sign in: %w", err)
	}

	m.setSession(sess)
	return sess.User, nil
}

func (m *Manager) SignUp(email, password, name, inviteCode string) (models.User, error) {
	if inviteCode != InviteCode {
		return models.User{}, fmt.Errorf("Invalid invite code")
	}

	sess, err := m.auth.SignUp(email, password, name)
	if err != nil {
		return models.User{}, fmt.Errorf("Error trying to sign up: %w", err)
	}

	m.setSession(sess)
	return sess.User, nil
}

func (m *Manager) SignOut() {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	if sink, ok := m.auth.(TokenSink); ok {
		sink.SetAuthToken("")
	}

	if m.store != nil {
		if err := m.store.ClearSession(); err != nil {
			m.logger.Printf("Could not clear persisted session: %v", err)
		}
	}
}

// Current returns the signed-in user, or false when there is no session.
func (m *Manager) Current() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

func (m *Manager) SignedIn() bool {
	_, ok := m.Current()
	return ok
}

func (m *Manager) setSession(sess client.Session) {
	m.mu.Lock()
	user := sess.User
	m.user = &user
	m.mu.Unlock()

	if sink, ok := m.auth.(TokenSink); ok {
		sink.SetAuthToken(sess.AccessToken)
	}

	if m.store != nil {
		if err := m.store.SaveSession(user); err != nil {
			m.logger.Printf("Could not persist session: %v", err)
		}
	}
}
