package ics

import (
	"strings"
	"testing"
	"time"
)

const sampleFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Google Inc//Google Calendar 70.9054//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:single-1\r\n" +
	"SUMMARY:Club fair booth\r\n" +
	"DESCRIPTION:Set up the booth by 9\r\n" +
	"LOCATION:Student Union\r\n" +
	"DTSTART:20240110T140000Z\r\n" +
	"DTEND:20240110T160000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly-1\r\n" +
	"SUMMARY:Weekly standup\r\n" +
	"DTSTART:20240102T090000Z\r\n" +
	"DTEND:20240102T093000Z\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=4\r\n" +
	"EXDATE:20240109T090000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"SUMMARY:No UID\r\n" +
	"DTSTART:20240103T090000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseReadsEventsAndSkipsBrokenOnes(t *testing.T) {
	events, err := Parse([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events (the UID-less one skipped), got %d", len(events))
	}

	single := events[0]
	if single.UID != "single-1" || single.Summary != "Club fair booth" {
		t.Fatalf("unexpected event %+v", single)
	}
	if single.Location != "Student Union" || single.Description != "Set up the booth by 9" {
		t.Fatalf("unexpected event %+v", single)
	}
	wantStart := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	if !single.Start.Equal(wantStart) {
		t.Fatalf("unexpected start %v", single.Start)
	}
	if !single.End.Equal(wantStart.Add(2 * time.Hour)) {
		t.Fatalf("unexpected end %v", single.End)
	}

	weekly := events[1]
	if weekly.RawRRule != "FREQ=WEEKLY;COUNT=4" {
		t.Fatalf("unexpected rrule %q", weekly.RawRRule)
	}
	if len(weekly.ExDates) != 1 {
		t.Fatalf("expected one exdate, got %v", weekly.ExDates)
	}
}

func TestParseDefaultsMissingEnd(t *testing.T) {
	feed := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:open-ended\r\n" +
		"SUMMARY:Drop-in hours\r\n" +
		"DTSTART:20240115T100000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := Parse([]byte(feed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if got := events[0].End.Sub(events[0].Start); got != time.Hour {
		t.Fatalf("expected a one hour default slot, got %v", got)
	}
}

func TestParseEmptyBody(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatalf("expected an error for an empty body")
	}
}

func TestExpandRecurrenceWithExclusions(t *testing.T) {
	events, err := Parse([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expanded := Expand(events, windowStart, windowEnd)

	// One plain event plus four weekly occurrences minus one EXDATE.
	if len(expanded) != 4 {
		t.Fatalf("expected 4 concrete events, got %d: %+v", len(expanded), expanded)
	}

	ids := make(map[string]bool)
	for _, ev := range expanded {
		if !ev.IsGoogleEvent {
			t.Fatalf("expected every imported event to be flagged external: %+v", ev)
		}
		ids[ev.GoogleEventId] = true
	}

	if !ids["single-1"] {
		t.Fatalf("expected the non-recurring event to keep its UID, got %v", ids)
	}
	if !ids["weekly-1:20240102T090000Z"] || !ids["weekly-1:20240116T090000Z"] || !ids["weekly-1:20240123T090000Z"] {
		t.Fatalf("unexpected occurrence ids %v", ids)
	}
	if ids["weekly-1:20240109T090000Z"] {
		t.Fatalf("expected the EXDATE occurrence to be dropped")
	}
}

func TestExpandHonorsTimezonedExclusions(t *testing.T) {
	// 04:00 America/New_York on Jan 9 2024 is the 09:00Z occurrence.
	feed := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:weekly-tz\r\n" +
		"SUMMARY:Morning check-in\r\n" +
		"DTSTART:20240102T090000Z\r\n" +
		"DTEND:20240102T093000Z\r\n" +
		"RRULE:FREQ=WEEKLY;COUNT=3\r\n" +
		"EXDATE;TZID=America/New_York:20240109T040000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, err := Parse([]byte(feed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(events) != 1 || len(events[0].ExDates) != 1 {
		t.Fatalf("expected one event with one exdate, got %+v", events)
	}
	if want := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC); !events[0].ExDates[0].Equal(want) {
		t.Fatalf("expected the exdate at %v, got %v", want, events[0].ExDates[0])
	}

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expanded := Expand(events, windowStart, windowEnd)

	if len(expanded) != 2 {
		t.Fatalf("expected 2 occurrences after the exclusion, got %d: %+v", len(expanded), expanded)
	}
	for _, ev := range expanded {
		if ev.GoogleEventId == "weekly-tz:20240109T090000Z" {
			t.Fatalf("expected the timezoned EXDATE occurrence to be dropped")
		}
	}
}

func TestExpandOccurrencesKeepDuration(t *testing.T) {
	events, err := Parse([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, ev := range Expand(events, windowStart, windowEnd) {
		if !strings.HasPrefix(ev.GoogleEventId, "weekly-1:") {
			continue
		}
		if got := ev.End.Sub(ev.Start); got != 30*time.Minute {
			t.Fatalf("expected each occurrence to keep the 30m slot, got %v", got)
		}
	}
}

func TestExpandSkipsEventsOutsideWindow(t *testing.T) {
	events := []ParsedEvent{
		{
			UID:     "past-1",
			Summary: "Last semester kickoff",
			Start:   time.Date(2023, 9, 1, 10, 0, 0, 0, time.UTC),
			End:     time.Date(2023, 9, 1, 11, 0, 0, 0, time.UTC),
		},
	}

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := Expand(events, windowStart, windowEnd); len(got) != 0 {
		t.Fatalf("expected nothing inside the window, got %+v", got)
	}
}

func TestExpandKeepsBaseOccurrenceOnBadRule(t *testing.T) {
	events := []ParsedEvent{
		{
			UID:      "bad-rule",
			Summary:  "Broken recurrence",
			Start:    time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
			End:      time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
			RawRRule: "FREQ=NONSENSE",
		},
	}

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expanded := Expand(events, windowStart, windowEnd)
	if len(expanded) != 1 || expanded[0].GoogleEventId != "bad-rule" {
		t.Fatalf("expected the base occurrence to survive, got %+v", expanded)
	}
}
