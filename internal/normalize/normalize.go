// Package normalize converts raw rows from the remote store into the strict
// entity types in internal/models. Every function here is pure and total:
// missing or malformed input degrades to a documented default, never an
// error. No other package should ever read a raw row.
package normalize

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
)

// PlaceholderUser substitutes person fields that would have come from a
// relational join when the join is unavailable.
const PlaceholderUser = "Unknown User"

func Task(row client.Row) models.Task {
	return models.Task{
		Id:          str(row, "id"),
		Title:       str(row, "title"),
		Description: str(row, "description"),
		DueDate:     date(row, "due_date", "dueDate"),
		DueTime:     str(row, "due_time", "dueTime"),
		Priority:    str(row, "priority"),
		Status:      str(row, "status"),
		AssignedTo:  person(row, "assignee", "assignedTo"),
		TeamId:      str(row, "team_id", "teamId"),
		CreatedBy:   person(row, "creator", "createdBy"),
		CreatedAt:   instant(row, "created_at", "createdAt"),
		UpdatedAt:   instant(row, "updated_at", "updatedAt"),
		Subtasks:    Subtasks(row["subtasks"]),
	}
}

func Tasks(rows []client.Row) []models.Task {
	tasks := make([]models.Task, len(rows))
	for i, row := range rows {
		tasks[i] = Task(row)
	}
	return tasks
}

func Event(row client.Row) models.CalendarEvent {
	return models.CalendarEvent{
		Id:            str(row, "id"),
		Title:         str(row, "title"),
		Description:   str(row, "description"),
		Start:         instant(row, "start_time", "start"),
		End:           instant(row, "end_time", "end"),
		TeamId:        str(row, "team_id", "teamId"),
		CreatedBy:     person(row, "creator", "createdBy"),
		Attendees:     Attendees(row["attendees"]),
		Location:      str(row, "location"),
		IsGoogleEvent: boolean(row, "is_google_event", "isGoogleEvent"),
		GoogleEventId: str(row, "google_event_id", "googleEventId"),
	}
}

func Events(rows []client.Row) []models.CalendarEvent {
	events := make([]models.CalendarEvent, len(rows))
	for i, row := range rows {
		events[i] = Event(row)
	}
	return events
}

func Team(row client.Row) models.Team {
	return models.Team{
		Id:          str(row, "id"),
		Name:        str(row, "name"),
		Description: str(row, "description"),
		TeamHeadId:  str(row, "team_head_id", "teamHeadId"),
		Members:     Attendees(row["members"]),
		CreatedAt:   instant(row, "created_at", "createdAt"),
		Color:       str(row, "color"),
	}
}

func Teams(rows []client.Row) []models.Team {
	teams := make([]models.Team, len(rows))
	for i, row := range rows {
		teams[i] = Team(row)
	}
	return teams
}

// Subtasks coerces a raw subtask value into a well-formed list. Accepted
// shapes: nil (empty list), a list of subtask objects (defaults applied per
// field), or a list of scalars treated as titles. Anything else is an empty
// list. Missing and duplicate ids are replaced with fresh ones so ids stay
// unique within the task.
func Subtasks(value any) []models.Subtask {
	list, ok := value.([]any)
	if !ok {
		return []models.Subtask{}
	}

	subtasks := make([]models.Subtask, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		if object, ok := item.(map[string]any); ok {
			subtask := models.Subtask{
				Id:        str(object, "id"),
				Title:     str(object, "title"),
				Completed: boolean(object, "completed"),
			}
			if subtask.Id == "" || seen[subtask.Id] {
				subtask.Id = uuid.NewString()
			}
			seen[subtask.Id] = true
			subtasks = append(subtasks, subtask)
			continue
		}
		subtasks = append(subtasks, models.Subtask{
			Id:    uuid.NewString(),
			Title: scalarString(item),
		})
	}
	return subtasks
}

// Attendees coerces a raw attendee value into a list of strings: nil or a
// non-list shape yields an empty list, list elements keep their string form.
func Attendees(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return []string{}
	}

	attendees := make([]string, len(list))
	for i, item := range list {
		attendees[i] = scalarString(item)
	}
	return attendees
}

// str returns the first non-empty string value among the given keys.
func str(row map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := row[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func boolean(row map[string]any, keys ...string) bool {
	for _, key := range keys {
		if value, ok := row[key].(bool); ok {
			return value
		}
	}
	return false
}

// person resolves a display name from a joined sub-object, falling back to
// the entity's own flat key (so an already-normalized record passes through
// unchanged) and then to the placeholder. The store's raw foreign-key
// columns are never used as display values.
func person(row client.Row, alias string, flatKeys ...string) string {
	if joined, ok := row[alias].(map[string]any); ok {
		if name := str(joined, "name"); name != "" {
			return name
		}
		if email := str(joined, "email"); email != "" {
			return email
		}
	}
	if value := str(row, flatKeys...); value != "" {
		return value
	}
	return PlaceholderUser
}

func date(row client.Row, keys ...string) models.Date {
	raw := str(row, keys...)
	if raw == "" {
		return models.Date{}
	}
	if parsed, err := models.ParseDate(raw); err == nil {
		return parsed
	}
	// Some stores hand back a full timestamp for date columns.
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return models.NewDate(t.Year(), t.Month(), t.Day())
	}
	return models.Date{}
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func instant(row client.Row, keys ...string) time.Time {
	raw := str(row, keys...)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	if parsed, err := models.ParseDate(raw); err == nil {
		return parsed.Time()
	}
	return time.Time{}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; keep integers unpadded.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprint(v)
	}
}
