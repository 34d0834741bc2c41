package models

import "time"

type CalendarEvent struct {
	Id            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	TeamId        string    `json:"teamId,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	Attendees     []string  `json:"attendees"`
	Location      string    `json:"location,omitempty"`
	IsGoogleEvent bool      `json:"isGoogleEvent,omitempty"`
	GoogleEventId string    `json:"googleEventId,omitempty"`
}
