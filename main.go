package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/CBCC/team-dashboard/internal/api"
	"github.com/CBCC/team-dashboard/internal/client/supabase"
	"github.com/CBCC/team-dashboard/internal/ics"
	"github.com/CBCC/team-dashboard/internal/repository"
	"github.com/CBCC/team-dashboard/internal/service"
	"github.com/CBCC/team-dashboard/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	storeUrl := os.Getenv("SUPABASE_URL")
	storeKey := os.Getenv("SUPABASE_ANON_KEY")
	if storeUrl == "" || storeKey == "" {
		log.Fatal("SUPABASE_URL and SUPABASE_ANON_KEY must be set")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./cbcc.db"
	}

	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatal("Error trying to initialize DB: ", err)
	}
	defer db.Close()

	fmt.Println("✅ Local database ready")

	store := supabase.NewClient(storeUrl, storeKey)
	snapshots := repository.NewSnapshotRepository(db)
	sessions := session.NewManager(store, repository.NewSessionRepository(db), nil)
	sessions.Restore()

	taskService := service.NewTaskService(store, sessions, snapshots, nil)
	eventService := service.NewEventService(store, sessions, snapshots, nil)
	teamService := service.NewTeamService(store, sessions, snapshots, nil)

	// A restored session behaves like a fresh sign-in: fetch everything once
	// at startup.
	if sessions.SignedIn() {
		if err := taskService.Load(); err != nil {
			log.Println(err)
		}
		if err := eventService.Load(); err != nil {
			log.Println(err)
		}
		if err := teamService.Load(); err != nil {
			log.Println(err)
		}
	}

	var importer *ics.Importer
	if feedUrl := os.Getenv("CALENDAR_FEED_URL"); feedUrl != "" {
		importer = ics.NewImporter(eventService, feedUrl, nil)

		schedule := os.Getenv("CALENDAR_SYNC_SCHEDULE")
		if schedule == "" {
			schedule = "@every 30m"
		}

		scheduler := cron.New()
		if _, err := scheduler.AddFunc(schedule, func() {
			if err := importer.Run(); err != nil {
				log.Println("Calendar sync failed:", err)
			}
		}); err != nil {
			log.Fatal("Invalid CALENDAR_SYNC_SCHEDULE: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()

		fmt.Println("📅 Calendar feed sync scheduled:", schedule)
	}

	router := api.SetupRouter(sessions, taskService, eventService, teamService, importer)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Println("🚀 Server running at http://localhost:" + port)
	fmt.Println("📝 Endpoints:")
	fmt.Println("   POST /auth/login, /auth/signup, /auth/logout")
	fmt.Println("   GET  /tasks, /tasks/board, /events, /teams")
	fmt.Println("   POST /tasks, /events, /teams (+ PATCH/DELETE by id)")
	fmt.Println("   POST /calendar/sync")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal("Error trying to start server: ", err)
	}
}
