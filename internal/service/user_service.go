package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/repository"
	"github.com/ThierryWelling/simplo-ti/internal/utils"
)

// UserService covers admin user management. Mutating operations re-verify the
// caller's role against the database, layered on top of the route-level role
// middleware: a stale token role is not enough to administrate.
type UserService struct {
	ids      repository.IdentityRepository
	profiles repository.ProfileRepository
	tickets  repository.TicketRepository
	log      zerolog.Logger
}

func NewUserService(ids repository.IdentityRepository, profiles repository.ProfileRepository, tickets repository.TicketRepository, log zerolog.Logger) *UserService {
	return &UserService{ids: ids, profiles: profiles, tickets: tickets, log: log}
}

func (s *UserService) requireAdmin(ctx context.Context, callerID string) error {
	p, err := s.profiles.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if p == nil || p.Role != models.RoleAdmin {
		return models.ErrNotAdmin
	}
	return nil
}

func (s *UserService) List(ctx context.Context, role string) ([]models.Profile, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, errors.New("invalid role filter")
	}
	return s.profiles.List(ctx, role)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (s *UserService) Stats(ctx context.Context) (models.UserStats, error) {
	return s.profiles.RoleStats(ctx)
}

func (s *UserService) TopAuxiliares(ctx context.Context, limit int) ([]models.Profile, error) {
	return s.profiles.TopAuxiliares(ctx, limit)
}

func (s *UserService) TicketStats(ctx context.Context, userID string) (models.UserTicketStats, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return models.UserTicketStats{}, err
	}
	return s.tickets.UserStats(ctx, userID)
}

type CreateUserInput struct {
	Email      string
	Name       string
	Password   string
	Role       string
	Department string
}

// Create is the admin path: the account comes out pre-confirmed with the
// given role, no confirmation email involved.
func (s *UserService) Create(ctx context.Context, callerID string, in CreateUserInput) (*models.Profile, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Name == "" || len(in.Password) < 6 {
		return nil, errors.New("invalid input")
	}
	if !models.ValidRole(in.Role) {
		return nil, errors.New("invalid role")
	}

	existing, err := s.profiles.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	p := &models.Profile{
		Email:      in.Email,
		Name:       in.Name,
		Role:       in.Role,
		Department: strings.TrimSpace(in.Department),
	}
	if err := s.ids.CreateUser(ctx, p, hash, true, ""); err != nil {
		return nil, err
	}
	return p, nil
}

type UpdateUserInput struct {
	Name       *string
	Email      *string
	Department *string
	Role       *string
	Points     *int
}

func (s *UserService) Update(ctx context.Context, callerID, id string, in UpdateUserInput) (*models.Profile, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Department != nil {
		p.Department = strings.TrimSpace(*in.Department)
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, errors.New("invalid role")
		}
		p.Role = *in.Role
	}
	if in.Points != nil {
		p.Points = *in.Points
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *UserService) UpdateRole(ctx context.Context, callerID, id, role string) (*models.Profile, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, errors.New("invalid role")
	}
	return s.profiles.UpdateRole(ctx, id, role)
}

// Delete removes profile and identity together. The last admin is protected:
// a system without admins cannot be administrated back to health.
func (s *UserService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Role == models.RoleAdmin {
		admins, err := s.profiles.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return models.ErrLastAdmin
		}
	}
	return s.ids.DeleteUser(ctx, id)
}
