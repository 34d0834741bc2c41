package client

import "github.com/CBCC/team-dashboard/internal/models"

// Row is a raw record as returned by the remote store. Nothing outside the
// normalizer should ever read from one.
type Row map[string]any

// Embed asks the store to include a joined object from a related collection
// under Alias.
type Embed struct {
	Alias      string
	Table      string
	ForeignKey string
	Columns    []string
}

type Order struct {
	Column     string
	Descending bool
}

// Query carries the optional pieces of a read: embedded relations, ordering
// and equality filters.
type Query struct {
	Embeds []Embed
	Order  *Order
	Eq     map[string]string
}

// RecordStore issues single-attempt operations against a named collection in
// the remote store. Implementations hold no cache and perform no retries.
type RecordStore interface {
	Select(collection string, query Query) ([]Row, error)
	Insert(collection string, payload Row) error
	Update(collection string, id string, changes Row) error
	Delete(collection string, id string) error
}

type Session struct {
	AccessToken string
	User        models.User
}

// AuthProvider exchanges credentials for a session with the remote store's
// auth endpoint.
type AuthProvider interface {
	SignIn(email, password string) (Session, error)
	SignUp(email, password, name string) (Session, error)
}
