package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/service"
	"github.com/CBCC/team-dashboard/internal/session"
)

type TeamHandler struct {
	teamService *service.TeamService
	sessions    *session.Manager
}

func NewTeamHandler(teamService *service.TeamService, sessions *session.Manager) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		sessions:    sessions,
	}
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.SignedIn() {
		writeError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	teams := h.teamService.Snapshot()
	if len(teams) == 0 {
		if err := h.teamService.Load(); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		teams = h.teamService.Snapshot()
	}

	writeJSON(w, http.StatusOK, map[string]any{"teams": teams})
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var draft service.TeamDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	if err := h.teamService.Create(draft); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Team created",
		"teams":   h.teamService.Snapshot(),
	})
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var changes client.Row
	if err := json.Unmarshal(body, &changes); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	if err := h.teamService.Update(id, translateKeys(changes, teamColumnAliases)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Team updated",
		"teams":   h.teamService.Snapshot(),
	})
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.teamService.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Team deleted",
		"teams":   h.teamService.Snapshot(),
	})
}
