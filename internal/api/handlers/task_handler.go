package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/service"
	"github.com/CBCC/team-dashboard/internal/session"
)

type TaskHandler struct {
	taskService *service.TaskService
	sessions    *session.Manager
}

func NewTaskHandler(taskService *service.TaskService, sessions *session.Manager) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		sessions:    sessions,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.SignedIn() {
		writeError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	tasks := h.taskService.Snapshot()
	if len(tasks) == 0 {
		// First read in this session; the cache fills lazily.
		if err := h.taskService.Load(); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		tasks = h.taskService.Snapshot()
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *TaskHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.SignedIn() {
		writeError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"board": h.taskService.ByStatus()})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var draft service.TaskDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	if err := h.taskService.Create(draft); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Task created",
		"tasks":   h.taskService.Snapshot(),
	})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
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

	if err := h.taskService.Update(id, translateKeys(changes, taskColumnAliases)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated",
		"tasks":   h.taskService.Snapshot(),
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.taskService.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task deleted",
		"tasks":   h.taskService.Snapshot(),
	})
}
