package models

import "time"

// Equipment is an inventoried asset. It is independent of tickets in the data
// model; it only pre-fills ticket descriptions at creation time.
type Equipment struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	CompanyName     string     `json:"companyName"`
	PatrimonyNumber string     `json:"patrimonyNumber"`
	ImageURL        *string    `json:"imageUrl,omitempty"`
	CreatedBy       *string    `json:"createdBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}
