package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/CBCC/team-dashboard/internal/session"
)

type SignUpRequestBody struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	InviteCode string `json:"inviteCode"`
}

type SignInRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	sessions *session.Manager
	// onSession runs after a session is established; the router wires it to
	// load every collection.
	onSession func()
}

func NewAuthHandler(sessions *session.Manager, onSession func()) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		onSession: onSession,
	}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody SignInRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	user, err := h.sessions.SignIn(reqBody.Email, reqBody.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if h.onSession != nil {
		h.onSession()
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody SignUpRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeError(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	user, err := h.sessions.SignUp(reqBody.Email, reqBody.Password, reqBody.Name, reqBody.InviteCode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.onSession != nil {
		h.onSession()
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessions.Current()
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
