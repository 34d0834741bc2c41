package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
	"github.com/CBCC/team-dashboard/internal/normalize"
)

// DefaultTeamColor is the color a new team gets when the draft leaves it out.
const DefaultTeamColor = "#008000"

type TeamService struct {
	store     client.RecordStore
	sessions  SessionSource
	snapshots SnapshotStore
	logger    *log.Logger

	mu    sync.RWMutex
	teams []models.Team
}

func NewTeamService(store client.RecordStore, sessions SessionSource, snapshots SnapshotStore, logger *log.Logger) *TeamService {
	if logger == nil {
		logger = log.New(os.Stderr, "[teams] ", log.LstdFlags)
	}
	return &TeamService{
		store:     store,
		sessions:  sessions,
		snapshots: snapshots,
		logger:    logger,
	}
}

type TeamDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamHead    string `json:"teamHead"`
	Color       string `json:"color"`
}

// Load fetches all teams newest-first. Teams embed no relations, so there is
// no joined tier to fall back from; a failed read keeps the stale cache.
func (s *TeamService) Load() error {
	if _, ok := s.sessions.Current(); !ok {
		return nil
	}

	rows, err := s.store.Select("teams", client.Query{
		Order: &client.Order{Column: "created_at", Descending: true},
	})
	if err != nil {
		s.fallback()
		return fmt.Errorf("Error trying to load teams: %w", err)
	}

	teams := normalize.Teams(rows)
	s.replace(teams)
	s.persist(teams)
	return nil
}

func (s *TeamService) Create(draft TeamDraft) error {
	if _, ok := s.sessions.Current(); !ok {
		return fmt.Errorf("No active session")
	}

	if draft.Color == "" {
		draft.Color = DefaultTeamColor
	}

	payload := client.Row{
		"name":         draft.Name,
		"description":  draft.Description,
		"team_head_id": resolveProfile(s.store, s.logger, draft.TeamHead),
		"color":        draft.Color,
	}

	if err := s.store.Insert("teams", payload); err != nil {
		return fmt.Errorf("Error trying to create team: %w", err)
	}

	return s.Load()
}

func (s *TeamService) Update(id string, changes client.Row) error {
	if _, ok := s.sessions.Current(); !ok {
		return fmt.Errorf("No active session")
	}

	delete(changes, "id")
	if err := s.store.Update("teams", id, changes); err != nil {
		return fmt.Errorf("Error trying to update team: %w", err)
	}

	return s.Load()
}

func (s *TeamService) Delete(id string) error {
	if _, ok := s.sessions.Current(); !ok {
		return fmt.Errorf("No active session")
	}

	if err := s.store.Delete("teams", id); err != nil {
		return fmt.Errorf("Error trying to delete team: %w", err)
	}

	return s.Load()
}

func (s *TeamService) Snapshot() []models.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]models.Team, len(s.teams))
	copy(teams, s.teams)
	return teams
}

// Find looks a team up by id in the cache. Cross-references between
// collections resolve through here rather than holding object links.
func (s *TeamService) Find(id string) (models.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, team := range s.teams {
		if team.Id == id {
			return team, true
		}
	}
	return models.Team{}, false
}

func (s *TeamService) replace(teams []models.Team) {
	s.mu.Lock()
	s.teams = teams
	s.mu.Unlock()
}

func (s *TeamService) persist(teams []models.Team) {
	if s.snapshots == nil {
		return
	}
	payload, err := json.Marshal(teams)
	if err != nil {
		s.logger.Printf("Could not encode team snapshot: %v", err)
		return
	}
	if err := s.snapshots.Save("teams", payload); err != nil {
		s.logger.Printf("Could not persist team snapshot: %v", err)
	}
}

func (s *TeamService) fallback() {
	s.mu.RLock()
	empty := len(s.teams) == 0
	s.mu.RUnlock()
	if !empty {
		return
	}

	if s.snapshots != nil {
		if payload, err := s.snapshots.Load("teams"); err == nil && payload != nil {
			var teams []models.Team
			if err := json.Unmarshal(payload, &teams); err == nil && len(teams) > 0 {
				s.logger.Printf("Seeding %d teams from persisted snapshot", len(teams))
				s.replace(teams)
				return
			}
		}
	}

	s.logger.Printf("Seeding demo teams")
	s.replace(demoTeams())
}
