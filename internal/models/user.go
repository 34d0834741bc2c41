package models

import "time"

const (
	RoleMaster   = "Master"
	RoleTeamHead = "Team Head"
	RoleMember   = "Member"
)

type User struct {
	Id        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Teams     []string  `json:"teams"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
