package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/CBCC/team-dashboard/internal/models"
)

const maxOccurrencesPerEvent = 500

// Expand turns parsed VEVENTs into concrete calendar events within the given
// window, expanding RRULE recurrences and dropping EXDATE exceptions. Each
// occurrence of a recurring event gets its own external id so re-imports
// stay stable.
func Expand(events []ParsedEvent, windowStart, windowEnd time.Time) []models.CalendarEvent {
	expanded := make([]models.CalendarEvent, 0, len(events))

	for _, ev := range events {
		if ev.RawRRule == "" {
			if ev.End.Before(windowStart) || ev.Start.After(windowEnd) {
				continue
			}
			expanded = append(expanded, externalEvent(ev, ev.Start, ev.End, ev.UID))
			continue
		}

		option, err := rrule.StrToROption(ev.RawRRule)
		if err != nil {
			// Unparsable rule: keep at least the base occurrence.
			expanded = append(expanded, externalEvent(ev, ev.Start, ev.End, ev.UID))
			continue
		}
		option.Dtstart = ev.Start

		rule, err := rrule.NewRRule(*option)
		if err != nil {
			expanded = append(expanded, externalEvent(ev, ev.Start, ev.End, ev.UID))
			continue
		}

		duration := ev.End.Sub(ev.Start)
		occurrences := rule.Between(windowStart, windowEnd, true)
		if len(occurrences) > maxOccurrencesPerEvent {
			occurrences = occurrences[:maxOccurrencesPerEvent]
		}

		for _, start := range occurrences {
			if excluded(ev.ExDates, start) {
				continue
			}
			id := ev.UID + ":" + start.UTC().Format("20060102T150405Z")
			expanded = append(expanded, externalEvent(ev, start, start.Add(duration), id))
		}
	}

	return expanded
}

func externalEvent(ev ParsedEvent, start, end time.Time, externalId string) models.CalendarEvent {
	return models.CalendarEvent{
		Title:         ev.Summary,
		Description:   ev.Description,
		Start:         start,
		End:           end,
		Location:      ev.Location,
		Attendees:     []string{},
		IsGoogleEvent: true,
		GoogleEventId: externalId,
	}
}

func excluded(exDates []time.Time, start time.Time) bool {
	for _, ex := range exDates {
		if ex.Equal(start) {
			return true
		}
	}
	return false
}
