// Package ics imports an external calendar feed (Google Calendar's private
// ICS URL, or any other ICS endpoint) into the events collection.
package ics

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

type Fetcher struct {
	httpClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch downloads the feed body. Single attempt; the scheduler simply tries
// again on the next tick.
func (f *Fetcher) Fetch(feedURL string) ([]byte, error) {
	resp, err := f.httpClient.Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("Error trying to fetch calendar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Calendar feed error status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Error trying to read the feed body: %w", err)
	}

	return body, nil
}
