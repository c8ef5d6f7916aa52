package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/notify"
	"github.com/ThierryWelling/simplo-ti/internal/repository"
)

// TicketService owns the ticket lifecycle: aberto → em_andamento → concluido,
// plus the one-shot rating that credits points to the assignee. The
// single-row invariants (assign once, rate once) live in the repository's
// conditional updates; this layer sequences the side effects around them.
type TicketService struct {
	tickets   repository.TicketRepository
	profiles  repository.ProfileRepository
	equipment repository.EquipmentRepository
	events    *notify.Publisher
	log       zerolog.Logger
}

func NewTicketService(tickets repository.TicketRepository, profiles repository.ProfileRepository, equipment repository.EquipmentRepository, events *notify.Publisher, log zerolog.Logger) *TicketService {
	return &TicketService{tickets: tickets, profiles: profiles, equipment: equipment, events: events, log: log}
}

type CreateTicketInput struct {
	Title       string
	Description string
	Category    string
	Priority    string

	// Optional inventory reference; pre-fills the description.
	EquipmentID string
}

func (s *TicketService) Create(ctx context.Context, in CreateTicketInput, creatorID string) (*models.Ticket, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedia
	}
	if !models.ValidPriority(in.Priority) {
		return nil, errors.New("invalid priority")
	}

	desc := strings.TrimSpace(in.Description)
	if in.EquipmentID != "" && s.equipment != nil {
		e, err := s.equipment.Get(ctx, in.EquipmentID)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, models.ErrNotFound
		}
		header := fmt.Sprintf("Equipamento: %s (%s)", e.Name, e.PatrimonyNumber)
		if desc == "" {
			desc = header
		} else {
			desc = header + "\n\n" + desc
		}
	}

	t := &models.Ticket{
		Title:       in.Title,
		Description: desc,
		Category:    strings.TrimSpace(in.Category),
		Priority:    in.Priority,
		Status:      models.StatusAberto,
		CreatedBy:   creatorID,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	s.events.TicketEvent(ctx, "created", creatorID, t)
	return t, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (*models.Ticket, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, models.ErrNotFound
	}
	return t, nil
}

func (s *TicketService) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, error) {
	return s.tickets.List(ctx, f)
}

// Assign claims an unassigned ticket for userID and moves it to em_andamento.
// First claimer wins; everyone else gets ErrAlreadyAssigned.
func (s *TicketService) Assign(ctx context.Context, ticketID, userID string) (*models.Ticket, error) {
	t, err := s.tickets.Assign(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, ticketID, "Chamado atribuído e em andamento", userID)
	s.events.TicketEvent(ctx, "assigned", userID, t)
	return t, nil
}

func (s *TicketService) Close(ctx context.Context, ticketID, userID string) (*models.Ticket, error) {
	t, err := s.tickets.Close(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, ticketID, "Chamado concluído", userID)
	s.events.TicketEvent(ctx, "closed", userID, t)
	return t, nil
}

// Rate records a 1-5 star rating on a concluded ticket and credits the
// assignee with RatingPoints(rating). Only the creator may rate, and only
// once; the points increment is atomic on the profile row.
func (s *TicketService) Rate(ctx context.Context, ticketID string, rating int, userID string) (*models.Ticket, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	current, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if current.CreatedBy != userID {
		return nil, models.ErrNotCreator
	}
	if current.Status != models.StatusConcluido {
		return nil, models.ErrNotConcluded
	}

	points := models.RatingPoints(rating)
	t, err := s.tickets.Rate(ctx, ticketID, rating, points)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, ticketID, fmt.Sprintf("Chamado avaliado com %d estrelas", rating), userID)

	if err := s.profiles.AddPoints(ctx, *t.AssignedTo, points); err != nil {
		return nil, fmt.Errorf("crediting assignee points: %w", err)
	}
	s.events.TicketEvent(ctx, "rated", userID, t)
	return t, nil
}

// AddUpdate appends a free-text comment. Unlike the lifecycle audit entries,
// a failure here is the whole operation, so it surfaces.
func (s *TicketService) AddUpdate(ctx context.Context, ticketID, message, userID string) (*models.TicketUpdate, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("message is required")
	}
	if _, err := s.Get(ctx, ticketID); err != nil {
		return nil, err
	}
	u := &models.TicketUpdate{TicketID: ticketID, Message: message, CreatedBy: userID}
	if err := s.tickets.AddUpdate(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *TicketService) Updates(ctx context.Context, ticketID string) ([]models.TicketUpdate, error) {
	return s.tickets.ListUpdates(ctx, ticketID)
}

func (s *TicketService) Stats(ctx context.Context) (models.TicketStats, error) {
	return s.tickets.Stats(ctx)
}

// audit appends a lifecycle entry to the ticket history. Failures are logged
// and swallowed: history may lag the ticket, the transition itself stands.
func (s *TicketService) audit(ctx context.Context, ticketID, message, userID string) {
	u := &models.TicketUpdate{TicketID: ticketID, Message: message, CreatedBy: userID}
	if err := s.tickets.AddUpdate(ctx, u); err != nil {
		s.log.Warn().Err(err).Str("ticket", ticketID).Msg("ticket history insert failed")
	}
}
