package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/CBCC/team-dashboard/internal/client"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// translateKeys maps the UI's field names onto store column names in a
// partial-update payload. Unknown keys pass through untouched.
func translateKeys(changes client.Row, aliases map[string]string) client.Row {
	for from, to := range aliases {
		if value, ok := changes[from]; ok {
			delete(changes, from)
			changes[to] = value
		}
	}
	return changes
}

var taskColumnAliases = map[string]string{
	"dueDate":    "due_date",
	"dueTime":    "due_time",
	"teamId":     "team_id",
	"assignedTo": "assigned_to",
	"createdBy":  "created_by",
}

var eventColumnAliases = map[string]string{
	"start":     "start_time",
	"end":       "end_time",
	"teamId":    "team_id",
	"createdBy": "created_by",
}

var teamColumnAliases = map[string]string{
	"teamHeadId": "team_head_id",
}
