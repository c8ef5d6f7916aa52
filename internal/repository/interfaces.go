package repository

import (
	"context"

	"github.com/ThierryWelling/simplo-ti/internal/models"
)

type TicketRepository interface {
	Create(ctx context.Context, t *models.Ticket) error
	Get(ctx context.Context, id string) (*models.Ticket, error)
	List(ctx context.Context, f TicketFilter) ([]models.Ticket, error)

	// Assign succeeds only while assigned_to is NULL (conditional update);
	// returns models.ErrAlreadyAssigned otherwise.
	Assign(ctx context.Context, ticketID, userID string) (*models.Ticket, error)
	Close(ctx context.Context, ticketID string) (*models.Ticket, error)
	// Rate succeeds only when assigned_to is set and rating is NULL;
	// returns models.ErrNoAssignee or models.ErrAlreadyRated otherwise.
	Rate(ctx context.Context, ticketID string, rating, points int) (*models.Ticket, error)

	AddUpdate(ctx context.Context, u *models.TicketUpdate) error
	ListUpdates(ctx context.Context, ticketID string) ([]models.TicketUpdate, error)

	Stats(ctx context.Context) (models.TicketStats, error)
	UserStats(ctx context.Context, userID string) (models.UserTicketStats, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context, role string) ([]models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	UpdateRole(ctx context.Context, id, role string) (*models.Profile, error)
	// AddPoints increments atomically (points = points + n).
	AddPoints(ctx context.Context, id string, points int) error
	Count(ctx context.Context) (int, error)
	CountAdmins(ctx context.Context) (int, error)
	TopAuxiliares(ctx context.Context, limit int) ([]models.Profile, error)
	RoleStats(ctx context.Context) (models.UserStats, error)
}

// IdentityRepository manages the auth identity (credentials) together with
// its profile. Create and Delete span both tables in one transaction.
type IdentityRepository interface {
	CreateUser(ctx context.Context, p *models.Profile, passwordHash string, confirmed bool, confirmationToken string) error
	DeleteUser(ctx context.Context, id string) error
	GetCredentials(ctx context.Context, email string) (*models.Credentials, error)
	ConfirmEmail(ctx context.Context, token string) error
	SetConfirmationToken(ctx context.Context, email, token string) error
}

type EquipmentRepository interface {
	List(ctx context.Context, q string) ([]models.Equipment, error)
	Get(ctx context.Context, id string) (*models.Equipment, error)
	Create(ctx context.Context, e *models.Equipment) error
	Update(ctx context.Context, e *models.Equipment) error
	Delete(ctx context.Context, id string) error
	SetImageURL(ctx context.Context, id, url string) (*models.Equipment, error)
}
