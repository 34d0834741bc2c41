package models

import "time"

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
	StatusBlocked    = "Blocked"
)

// StatusColumns is the canonical board column order.
var StatusColumns = []string{StatusToDo, StatusInProgress, StatusDone, StatusBlocked}

type Subtask struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Task struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     Date      `json:"dueDate"`
	DueTime     string    `json:"dueTime,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	AssignedTo  string    `json:"assignedTo"`
	TeamId      string    `json:"teamId"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Subtasks    []Subtask `json:"subtasks"`
}

// SubtaskProgress reports how many subtasks are completed out of the total.
func (t Task) SubtaskProgress() (completed, total int) {
	for _, sub := range t.Subtasks {
		if sub.Completed {
			completed++
		}
	}
	return completed, len(t.Subtasks)
}
