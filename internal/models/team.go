package models

import "time"

type Team struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TeamHeadId  string    `json:"teamHeadId"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	Color       string    `json:"color"`
}
