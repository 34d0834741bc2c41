package service

import (
	_ "embed"
	"log"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/CBCC/team-dashboard/internal/client"
	"github.com/CBCC/team-dashboard/internal/models"
	"github.com/CBCC/team-dashboard/internal/normalize"
)

// The demo dataset backs the no-remote state: it is substituted only when a
// load fails and neither the cache nor the persisted snapshot has anything
// to show.

//go:embed demo.yaml
var demoFile []byte

type demoData struct {
	Tasks  []map[string]any `yaml:"tasks"`
	Teams  []map[string]any `yaml:"teams"`
	Events []map[string]any `yaml:"events"`
}

var (
	demoOnce   sync.Once
	demoParsed demoData
)

func loadDemo() demoData {
	demoOnce.Do(func() {
		if err := yaml.Unmarshal(demoFile, &demoParsed); err != nil {
			log.Printf("[demo] Could not parse demo dataset: %v", err)
		}
	})
	return demoParsed
}

func demoTasks() []models.Task {
	return normalize.Tasks(asRows(loadDemo().Tasks))
}

func demoTeams() []models.Team {
	return normalize.Teams(asRows(loadDemo().Teams))
}

func demoEvents() []models.CalendarEvent {
	return normalize.Events(asRows(loadDemo().Events))
}

func asRows(raw []map[string]any) []client.Row {
	rows := make([]client.Row, len(raw))
	for i, record := range raw {
		rows[i] = client.Row(record)
	}
	return rows
}
