package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
	"github.com/CBCC/team-dashboard/internal/normalize"
)

var taskEmbeds = []client.Embed{
	{Alias: "assignee", Table: "profiles", ForeignKey: "assigned_to", Columns: []string{"name", "email"}},
	{Alias: "creator", Table: "profiles", ForeignKey: "created_by", Columns: []string{"name"}},
}

type TaskService struct {
	store     client.RecordStore
	sessions  SessionSource
	snapshots SnapshotStore
	logger    *log.Logger

	mu    sync.RWMutex
	tasks []models.Task
}

func NewTaskService(store client.RecordStore, sessions SessionSource, snapshots SnapshotStore, logger *log.Logger) *TaskService {
	if logger == nil {
		logger = log.New(os.Stderr, "[tasks] ", log.LstdFlags)
	}
	return &TaskService{
		store:     store,
		sessions:  sessions,
		snapshots: snapshots,
		logger:    logger,
	}
}

// TaskDraft is what the UI submits to create a task. Assignee is a
// human-readable handle (email) resolved to a profile id on insert.
type TaskDraft struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	DueDate     models.Date      `json:"dueDate"`
	DueTime     string           `json:"dueTime"`
	Priority    string           `json:"priority"`
	Status      string           `json:"status"`
	Assignee    string           `json:"assignee"`
	TeamId      string           `json:"teamId"`
	Subtasks    []models.Subtask `json:"subtasks"`
}

// Load fetches the whole collection, normalizes it and replaces the cache.
// A failed joined read is retried once without joins, leaving placeholder
// names on fields the join would have filled. When both reads fail the
// previous cache stays visible; an empty cache falls back to the persisted
// snapshot and then the demo dataset.
func (s *TaskService) Load() error {
	if _, ok := s.sessions.Current(); !ok {
		return nil
	}

	order := &client.Order{Column: "created_at", Descending: true}

	rows, err := s.store.Select("tasks", client.Query{Embeds: taskEmbeds, Order: order})
	if err != nil {
		s.logger.Printf("Joined task read failed, retrying without joins: %v", err)
		rows, err = s.store.Select("tasks", client.Query{Order: order})
	}
	if err != nil {
		s.fallback()
		return fmt.Errorf("Error trying to load tasks: %w", err)
	}

	tasks := normalize.Tasks(rows)
	s.replace(tasks)
	s.persist(tasks)
	return nil
}

func (s *TaskService) Create(draft TaskDraft) error {
	user, ok := s.sessions.Current()
	if !ok {
		return fmt.Errorf("No active session")
	}

	if draft.Status == "" {
		draft.Status = models.StatusToDo
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}

	payload := client.Row{
		"title":       draft.Title,
		"description": draft.Description,
		"priority":    draft.Priority,
		"status":      draft.Status,
		"assigned_to": resolveProfile(s.store, s.logger, draft.Assignee),
		"created_by":  user.Id,
		"subtasks":    withSubtaskIds(draft.Subtasks),
	}
	if draft.TeamId != "" {
		payload["team_id"] = draft.TeamId
	}
	if !draft.DueDate.IsZero() {
		payload["due_date"] = draft.DueDate.String()
	}
	if draft.DueTime != "" {
		payload["due_time"] = draft.DueTime
	}

	if err := s.store.Insert("tasks", payload); err != nil {
		return fmt.Errorf("Error trying to create task: %w", err)
	}

	return s.Load()
}

// Update patches only the provided fields; everything else is left untouched
// server-side.
func (s *TaskService) Update(id string, changes client.Row) error {
	if _, ok := s.sessions.Current(); !ok {
		return fmt.Errorf("No active session")
	}

	delete(changes, "id")
	if err := s.store.Update("tasks", id, changes); err != nil {
		return fmt.Errorf("Error trying to update task: %w", err)
	}

	return s.Load()
}

func (s *TaskService) Delete(id string) error {
	if _, ok := s.sessions.Current(); !ok {
		return fmt.Errorf("No active session")
	}

	if err := s.store.Delete("tasks", id); err != nil {
		return fmt.Errorf("Error trying to delete task: %w", err)
	}

	return s.Load()
}

// Snapshot returns a copy of the current cache.
func (s *TaskService) Snapshot() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

// ByStatus groups the cached tasks into board columns, keeping cache order
// within each column.
func (s *TaskService) ByStatus() map[string][]models.Task {
	board := make(map[string][]models.Task, len(models.StatusColumns))
	for _, status := range models.StatusColumns {
		board[status] = []models.Task{}
	}
	for _, task := range s.Snapshot() {
		board[task.Status] = append(board[task.Status], task)
	}
	return board
}

func (s *TaskService) replace(tasks []models.Task) {
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
}

func (s *TaskService) persist(tasks []models.Task) {
	if s.snapshots == nil {
		return
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Printf("Could not encode task snapshot: %v", err)
		return
	}
	if err := s.snapshots.Save("tasks", payload); err != nil {
		s.logger.Printf("Could not persist task snapshot: %v", err)
	}
}

// fallback seeds an empty cache after a failed load: first from the
// persisted snapshot, then from the demo dataset. A non-empty cache is left
// as-is, stale but available.
func (s *TaskService) fallback() {
	s.mu.RLock()
	empty := len(s.tasks) == 0
	s.mu.RUnlock()
	if !empty {
		return
	}

	if s.snapshots != nil {
		if payload, err := s.snapshots.Load("tasks"); err == nil && payload != nil {
			var tasks []models.Task
			if err := json.Unmarshal(payload, &tasks); err == nil && len(tasks) > 0 {
				s.logger.Printf("Seeding %d tasks from persisted snapshot", len(tasks))
				s.replace(tasks)
				return
			}
		}
	}

	s.logger.Printf("Seeding demo tasks")
	s.replace(demoTasks())
}

func withSubtaskIds(subtasks []models.Subtask) []models.Subtask {
	out := make([]models.Subtask, len(subtasks))
	for i, sub := range subtasks {
		if sub.Id == "" {
			sub.Id = uuid.NewString()
		}
		out[i] = sub
	}
	return out
}
