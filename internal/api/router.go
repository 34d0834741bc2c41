package api

import (
	"log"
	"net/http"

	"github.com/CBCC/team-dashboard/internal/api/handlers"
	"github.com/CBCC/team-dashboard/internal/ics"
	"github.com/CBCC/team-dashboard/internal/service"
	"github.com/CBCC/team-dashboard/internal/session"
)

func SetupRouter(
	sessions *session.Manager,
	taskService *service.TaskService,
	eventService *service.EventService,
	teamService *service.TeamService,
	importer *ics.Importer,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Entering a session moves every collection out of its uninitialized
	// state with a first full fetch.
	onSession := func() {
		if err := taskService.Load(); err != nil {
			log.Printf("Initial task load failed: %v", err)
		}
		if err := eventService.Load(); err != nil {
			log.Printf("Initial event load failed: %v", err)
		}
		if err := teamService.Load(); err != nil {
			log.Printf("Initial team load failed: %v", err)
		}
	}

	authHandler := handlers.NewAuthHandler(sessions, onSession)
	taskHandler := handlers.NewTaskHandler(taskService, sessions)
	eventHandler := handlers.NewEventHandler(eventService, sessions, importer)
	teamHandler := handlers.NewTeamHandler(teamService, sessions)

	mux.HandleFunc("POST /auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /auth/login", authHandler.SignIn)
	mux.HandleFunc("POST /auth/logout", authHandler.SignOut)
	mux.HandleFunc("GET /auth/me", authHandler.Me)

	mux.HandleFunc("GET /tasks", taskHandler.ListTasks)
	mux.HandleFunc("GET /tasks/board", taskHandler.GetBoard)
	mux.HandleFunc("POST /tasks", taskHandler.CreateTask)
	mux.HandleFunc("PATCH /tasks/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", taskHandler.DeleteTask)

	mux.HandleFunc("GET /events", eventHandler.ListEvents)
	mux.HandleFunc("POST /events", eventHandler.CreateEvent)
	mux.HandleFunc("PATCH /events/{id}", eventHandler.UpdateEvent)
	mux.HandleFunc("DELETE /events/{id}", eventHandler.DeleteEvent)
	mux.HandleFunc("POST /calendar/sync", eventHandler.SyncCalendar)

	mux.HandleFunc("GET /teams", teamHandler.ListTeams)
	mux.HandleFunc("POST /teams", teamHandler.CreateTeam)
	mux.HandleFunc("PATCH /teams/{id}", teamHandler.UpdateTeam)
	mux.HandleFunc("DELETE /teams/{id}", teamHandler.DeleteTeam)

	return mux
}
