package ics

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/CBCC/team-dashboard/internal/service"
)

// importWindow is how far around now occurrences are materialized.
const importWindow = 90 * 24 * time.Hour

// Importer runs the full feed cycle: fetch, parse, expand, replace the
// external events in the store.
type Importer struct {
	fetcher *Fetcher
	events  *service.EventService
	feedURL string
	logger  *log.Logger
}

func NewImporter(events *service.EventService, feedURL string, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.New(os.Stderr, "[ics] ", log.LstdFlags)
	}
	return &Importer{
		fetcher: NewFetcher(),
		events:  events,
		feedURL: feedURL,
		logger:  logger,
	}
}

func (i *Importer) Run() error {
	body, err := i.fetcher.Fetch(i.feedURL)
	if err != nil {
		return err
	}

	parsed, err := Parse(body)
	if err != nil {
		return fmt.Errorf("Error trying to parse calendar feed: %w", err)
	}

	now := time.Now()
	expanded := Expand(parsed, now.Add(-importWindow), now.Add(importWindow))
	i.logger.Printf("Feed produced %d events (%d raw entries)", len(expanded), len(parsed))

	return i.events.SyncExternal(expanded)
}
