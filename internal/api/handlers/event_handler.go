package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/ics"
	"github.com/CBCC/team-dashboard/internal/service"
	"github.com/CBCC/team-dashboard/internal/session"
)

type EventHandler struct {
	eventService *service.EventService
	sessions     *session.Manager
	// importer is nil when no calendar feed is configured.
	importer *ics.Importer
}

func NewEventHandler(eventService *service.EventService, sessions *session.Manager, importer *ics.Importer) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		sessions:     sessions,
		importer:     importer,
	}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.SignedIn() {
		writeError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	events := h.eventService.Snapshot()
	if len(events) == 0 {
		if err := h.eventService.Load(); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		events = h.eventService.Snapshot()
	}

	if r.URL.Query().Get("upcoming") == "true" {
		events = h.eventService.Upcoming(time.Now())
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var draft service.EventDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	if err := h.eventService.Create(draft); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Event created",
		"events":  h.eventService.Snapshot(),
	})
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
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

	if err := h.eventService.Update(id, translateKeys(changes, eventColumnAliases)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Event updated",
		"events":  h.eventService.Snapshot(),
	})
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.eventService.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Event deleted",
		"events":  h.eventService.Snapshot(),
	})
}

// SyncCalendar triggers an external feed import right away instead of
// waiting for the scheduler.
func (h *EventHandler) SyncCalendar(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		writeError(w, http.StatusNotImplemented, "No calendar feed configured")
		return
	}

	if err := h.importer.Run(); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Calendar synced",
		"events":  h.eventService.Snapshot(),
	})
}
