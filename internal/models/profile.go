package models

import "time"

// Roles mirror the Portuguese vocabulary of the product.
const (
	RoleColaborador = "colaborador" // end user, opens tickets
	RoleAuxiliar    = "auxiliar"    // support staff, resolves tickets
	RoleAdmin       = "admin"
)

func ValidRole(r string) bool {
	switch r {
	case RoleColaborador, RoleAuxiliar, RoleAdmin:
		return true
	}
	return false
}

// Profile is the application-level user record. The login identity lives in
// Credentials; the two are created and deleted together.
type Profile struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Department string     `json:"department"`
	Points     int        `json:"points"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// Credentials is the authentication identity backing a Profile. Sign-in is
// refused until EmailConfirmedAt is set.
type Credentials struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	EmailConfirmedAt  *time.Time `json:"emailConfirmedAt,omitempty"`
	ConfirmationToken *string    `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func (c *Credentials) Confirmed() bool { return c.EmailConfirmedAt != nil }

type UserStats struct {
	Colaboradores int `json:"colaboradores"`
	Auxiliares    int `json:"auxiliares"`
	Admins        int `json:"admins"`
	Total         int `json:"total"`
}

// UserTicketStats are the per-user counters shown on profile pages.
type UserTicketStats struct {
	Created   int `json:"created"`
	Assigned  int `json:"assigned"`
	Completed int `json:"completed"`
}
