package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ParsedEvent is a VEVENT before recurrence expansion.
type ParsedEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	RawRRule    string
	ExDates     []time.Time
}

// Parse decodes an ICS payload. Events that cannot be read (no UID, no
// usable start) are skipped so one broken entry does not sink the feed.
func Parse(body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]ParsedEvent, 0)
	for _, ve := range cal.Events() {
		parsed, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		events = append(events, parsed)
	}

	return events, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, bool) {
	var out ParsedEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, false
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, false
	}
	out.Start = start

	end, err := ve.GetEndAt()
	if err != nil {
		// DTEND is optional; default to a one hour slot.
		end = start.Add(time.Hour)
	}
	out.End = end

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		loc := exdateLocation(p)
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, true
}

// exdateLocation resolves the TZID parameter on an EXDATE property. Google
// feeds emit EXDATE;TZID=...:wall-time rather than UTC.
func exdateLocation(p *ical.IANAProperty) *time.Location {
	tzids, ok := p.ICalParameters["TZID"]
	if !ok || len(tzids) == 0 || tzids[0] == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tzids[0])
	if err != nil {
		return time.Local
	}
	return loc
}

func parseICSTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "Z") {
		return time.Parse("20060102T150405Z", value)
	}
	if strings.Contains(value, "T") {
		return time.ParseInLocation("20060102T150405", value, loc)
	}
	return time.ParseInLocation("20060102", value, loc)
}
