package models

import (
	"math"
	"time"
)

const (
	StatusAberto      = "aberto"
	StatusEmAndamento = "em_andamento"
	StatusConcluido   = "concluido"
	// Declared in the schema, reachable only by direct data fixes; no API
	// operation produces it.
	StatusCancelado = "cancelado"
)

const (
	PriorityBaixa   = "baixa"
	PriorityMedia   = "media"
	PriorityAlta    = "alta"
	PriorityUrgente = "urgente"
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityBaixa, PriorityMedia, PriorityAlta, PriorityUrgente:
		return true
	}
	return false
}

type Ticket struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	AssignedTo  *string    `json:"assignedTo"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
	Points      *int       `json:"points,omitempty"`

	// Joined for display, not stored on the row.
	CreatorName  string `json:"creatorName,omitempty"`
	AssigneeName string `json:"assigneeName,omitempty"`

	Updates []TicketUpdate `json:"updates,omitempty"`
}

// TicketUpdate is the append-only audit trail of a ticket: assignment,
// closing, rating and free-text comments all land here.
type TicketUpdate struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	Message   string    `json:"message"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type TicketStats struct {
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

// RatingPoints converts a 1-5 star rating into the points credited to the
// assignee: 10 points at 5 stars, proportionally fewer below.
func RatingPoints(rating int) int {
	return int(math.Round(10 * float64(rating) / 5))
}
