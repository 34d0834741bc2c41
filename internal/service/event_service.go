package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
	"github.com/CBCC/team-dashboard/internal/normalize"
)

var eventEmbeds = []client.Embed{
	{Alias: "creator", Table: "profiles", ForeignKey: "created_by", Columns: []string{"name"}},
}

type EventService struct {
	store     client.RecordStore
	sessions  SessionSource
	snapshots SnapshotStore
	logger    *log.Logger

	mu     sync.RWMutex
	events []models.CalendarEvent
}

func NewEventService(store client.RecordStore, sessions SessionSource, snapshots SnapshotStore, logger *log.Logger) *EventService {
	if logger == nil {
		logger = log.New(os.Stderr, "[events] ", log.LstdFlags)
	}
	return &EventService{
		store:     store,
		sessions:  sessions,
		snapshots: snapshots,
		logger:    logger,
	}
}

type EventDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TeamId      string    `json:"teamId"`
	Attendees   []string  `json:"attendees"`
	Location    string    `json:"location"`
}

func (s *EventService) Load() error {
	if _, ok := s.sessions.Current(); !ok {
		return nil
	}

	order := &client.Order{Column: "start_time", Descending: false}

	rows, err := s.store.Select("events", client.Query{Embeds: eventEmbeds, Order: order})
	if err != nil {
		s.logger.Printf("Joined event read failed, retrying without joins: %v", err)
		rows, err = s.store.Select("events", client.Query{Order: order})
	}
	if err != nil {
		s.fallback()
		return fmt.Errorf("Error trying to load events: %w", err)
	}

	events := normalize.Events(rows)
	s.replace(events)
	s.persist(events)
	return nil
}

func (s *EventService) Create(draft EventDraft) error {
	user, ok := s.sessions.Current()
	if !ok {
		return fmt.Errorf("No active session")
	}

	payload := client.Row{
		"title":       draft.Title,
		"description": draft.Description,
		"start_time":  draft.Start.Format(time.RFC3339),
		"end_time":    draft.End.Format(time.RFC3339),
		"created_by":  user.Id,
		"attendees":   draft.Attendees,
	}
	if draft.TeamId != "" {
		payload["team_id"] = draft.TeamId
	}
	if draft.Location != "" {
		payload["location"] = draft.Location
	}

	if err := s.store.Insert("events", payload); err != nil {
		return fmt.Errorf("Error trying to create event: %w", err)
	}

	return s.Load()
}

func (s *EventService) Update(id string, changes client.Row) error {
	if _, ok := s.sessions.Current(); !ok {
		return fmt.Errorf("No active session")
	}

	delete(changes, "id")
	if err := s.store.Update("events", id, changes); err != nil {
		return fmt.Errorf("Error trying to update event: %w", err)
	}

	return s.Load()
}

func (s *EventService) Delete(id string) error {
	if _, ok := s.sessions.Current(); !ok {
		return fmt.Errorf("No active session")
	}

	if err := s.store.Delete("events", id); err != nil {
		return fmt.Errorf("Error trying to delete event: %w", err)
	}

	return s.Load()
}

// SyncExternal replaces all externally sourced events in the remote store
// with the given set, so events removed upstream disappear here too. It runs
// without a session so the scheduled import can work headless; the refresh
// at the end is a no-op until someone signs in.
func (s *EventService) SyncExternal(events []models.CalendarEvent) error {
	existing, err := s.store.Select("events", client.Query{Eq: map[string]string{"is_google_event": "true"}})
	if err != nil {
		return fmt.Errorf("Error trying to read external events: %w", err)
	}

	for _, row := range existing {
		id, _ := row["id"].(string)
		if id == "" {
			continue
		}
		if err := s.store.Delete("events", id); err != nil {
			return fmt.Errorf("Error trying to remove external event: %w", err)
		}
	}

	for _, event := range events {
		payload := client.Row{
			"title":           event.Title,
			"description":     event.Description,
			"start_time":      event.Start.Format(time.RFC3339),
			"end_time":        event.End.Format(time.RFC3339),
			"attendees":       event.Attendees,
			"is_google_event": true,
			"google_event_id": event.GoogleEventId,
		}
		if event.Location != "" {
			payload["location"] = event.Location
		}
		if err := s.store.Insert("events", payload); err != nil {
			return fmt.Errorf("Error trying to import external event: %w", err)
		}
	}

	s.logger.Printf("Imported %d external events", len(events))
	return s.Load()
}

func (s *EventService) Snapshot() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]models.CalendarEvent, len(s.events))
	copy(events, s.events)
	return events
}

// Upcoming returns cached events that have not ended yet, in cache order.
func (s *EventService) Upcoming(now time.Time) []models.CalendarEvent {
	upcoming := []models.CalendarEvent{}
	for _, event := range s.Snapshot() {
		if event.End.Before(now) {
			continue
		}
		upcoming = append(upcoming, event)
	}
	return upcoming
}

func (s *EventService) replace(events []models.CalendarEvent) {
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
}

func (s *EventService) persist(events []models.CalendarEvent) {
	if s.snapshots == nil {
		return
	}
	payload, err := json.Marshal(events)
	if err != nil {
		s.logger.Printf("Could not encode event snapshot: %v", err)
		return
	}
	if err := s.snapshots.Save("events", payload); err != nil {
		s.logger.Printf("Could not persist event snapshot: %v", err)
	}
}

func (s *EventService) fallback() {
	s.mu.RLock()
	empty := len(s.events) == 0
	s.mu.RUnlock()
	if !empty {
		return
	}

	if s.snapshots != nil {
		if payload, err := s.snapshots.Load("events"); err == nil && payload != nil {
			var events []models.CalendarEvent
			if err := json.Unmarshal(payload, &events); err == nil && len(events) > 0 {
				s.logger.Printf("Seeding %d events from persisted snapshot", len(events))
				s.replace(events)
				return
			}
		}
	}

	s.logger.Printf("Seeding demo events")
	s.replace(demoEvents())
}
