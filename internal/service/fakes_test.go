package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/repository"
)

// In-memory repositories mirroring the conditional-update semantics of the
// postgres implementations.

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*models.Ticket
	updates []models.TicketUpdate

	failAddUpdate bool
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*models.Ticket{}}
}

func (r *fakeTicketRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("t%d", r.seq)
}

func (r *fakeTicketRepo) Create(_ context.Context, t *models.Ticket) error {
	t.ID = r.nextID()
	t.CreatedAt = time.Now()
	cp := *t
	r.tickets[t.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) Get(_ context.Context, id string) (*models.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	for _, u := range r.updates {
		if u.TicketID == id {
			cp.Updates = append(cp.Updates, u)
		}
	}
	return &cp, nil
}

func (r *fakeTicketRepo) List(_ context.Context, f repository.TicketFilter) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range r.tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.CreatedBy != "" && t.CreatedBy != f.CreatedBy {
			continue
		}
		if len(f.AssignedTo) > 0 || f.Unassigned {
			match := f.Unassigned && t.AssignedTo == nil
			if t.AssignedTo != nil {
				for _, id := range f.AssignedTo {
					if *t.AssignedTo == id {
						match = true
					}
				}
			}
			if !match {
				continue
			}
		}
		if f.Q != "" && !strings.Contains(t.Title, f.Q) && !strings.Contains(t.Description, f.Q) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTicketRepo) Assign(ctx context.Context, ticketID, userID string) (*models.Ticket, error) {
	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if t.AssignedTo != nil {
		return nil, models.ErrAlreadyAssigned
	}
	now := time.Now()
	t.AssignedTo = &userID
	t.Status = models.StatusEmAndamento
	t.UpdatedAt = &now
	return r.Get(ctx, ticketID)
}

func (r *fakeTicketRepo) Close(ctx context.Context, ticketID string) (*models.Ticket, error) {
	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, models.ErrNotFound
	}
	now := time.Now()
	t.Status = models.StatusConcluido
	t.ClosedAt = &now
	t.UpdatedAt = &now
	return r.Get(ctx, ticketID)
}

func (r *fakeTicketRepo) Rate(ctx context.Context, ticketID string, rating, points int) (*models.Ticket, error) {
	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if t.AssignedTo == nil {
		return nil, models.ErrNoAssignee
	}
	if t.Rating != nil {
		return nil, models.ErrAlreadyRated
	}
	now := time.Now()
	t.Rating = &rating
	t.Points = &points
	t.UpdatedAt = &now
	return r.Get(ctx, ticketID)
}

func (r *fakeTicketRepo) AddUpdate(_ context.Context, u *models.TicketUpdate) error {
	if r.failAddUpdate {
		return errors.New("audit store down")
	}
	r.seq++
	u.ID = fmt.Sprintf("u%d", r.seq)
	u.CreatedAt = time.Now()
	r.updates = append(r.updates, *u)
	return nil
}

func (r *fakeTicketRepo) ListUpdates(_ context.Context, ticketID string) ([]models.TicketUpdate, error) {
	var out []models.TicketUpdate
	for _, u := range r.updates {
		if u.TicketID == ticketID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) Stats(_ context.Context) (models.TicketStats, error) {
	var s models.TicketStats
	for _, t := range r.tickets {
		switch t.Status {
		case models.StatusAberto:
			s.Open++
		case models.StatusEmAndamento:
			s.InProgress++
		case models.StatusConcluido:
			s.Completed++
		}
	}
	s.Total = s.Open + s.InProgress + s.Completed
	return s, nil
}

func (r *fakeTicketRepo) UserStats(_ context.Context, userID string) (models.UserTicketStats, error) {
	var s models.UserTicketStats
	for _, t := range r.tickets {
		if t.CreatedBy == userID {
			s.Created++
		}
		if t.AssignedTo != nil && *t.AssignedTo == userID {
			s.Assigned++
			if t.Status == models.StatusConcluido {
				s.Completed++
			}
		}
	}
	return s, nil
}

type fakeProfileRepo struct {
	seq      int
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.Profile{}}
}

func (r *fakeProfileRepo) add(name, role string) *models.Profile {
	r.seq++
	p := &models.Profile{
		ID:        fmt.Sprintf("p%d", r.seq),
		Email:     fmt.Sprintf("%s@example.com", strings.ToLower(name)),
		Name:      name,
		Role:      role,
		CreatedAt: time.Now(),
	}
	r.profiles[p.ID] = p
	return p
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) List(_ context.Context, role string) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range r.profiles {
		if role == "" || p.Role == role {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	if _, ok := r.profiles[p.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) UpdateRole(ctx context.Context, id, role string) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p.Role = role
	return r.GetByID(ctx, id)
}

func (r *fakeProfileRepo) AddPoints(_ context.Context, id string, points int) error {
	p, ok := r.profiles[id]
	if !ok {
		return models.ErrNotFound
	}
	p.Points += points
	return nil
}

func (r *fakeProfileRepo) Count(_ context.Context) (int, error) {
	return len(r.profiles), nil
}

func (r *fakeProfileRepo) CountAdmins(_ context.Context) (int, error) {
	n := 0
	for _, p := range r.profiles {
		if p.Role == models.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (r *fakeProfileRepo) TopAuxiliares(ctx context.Context, limit int) ([]models.Profile, error) {
	out, _ := r.List(ctx, models.RoleAuxiliar)
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProfileRepo) RoleStats(_ context.Context) (models.UserStats, error) {
	var s models.UserStats
	for _, p := range r.profiles {
		switch p.Role {
		case models.RoleColaborador:
			s.Colaboradores++
		case models.RoleAuxiliar:
			s.Auxiliares++
		case models.RoleAdmin:
			s.Admins++
		}
	}
	s.Total = s.Colaboradores + s.Auxiliares + s.Admins
	return s, nil
}

type fakeIdentityRepo struct {
	seq      int
	creds    map[string]*models.Credentials // by email
	profiles *fakeProfileRepo
}

func newFakeIdentityRepo(profiles *fakeProfileRepo) *fakeIdentityRepo {
	return &fakeIdentityRepo{creds: map[string]*models.Credentials{}, profiles: profiles}
}

func (r *fakeIdentityRepo) CreateUser(_ context.Context, p *models.Profile, passwordHash string, confirmed bool, token string) error {
	if _, ok := r.creds[p.Email]; ok {
		return models.ErrEmailTaken
	}
	r.seq++
	p.ID = fmt.Sprintf("id%d", r.seq)
	p.CreatedAt = time.Now()

	c := &models.Credentials{ID: p.ID, Email: p.Email, PasswordHash: passwordHash, CreatedAt: p.CreatedAt}
	if confirmed {
		now := time.Now()
		c.EmailConfirmedAt = &now
	}
	if token != "" {
		c.ConfirmationToken = &token
	}
	r.creds[p.Email] = c

	cp := *p
	r.profiles.profiles[p.ID] = &cp
	return nil
}

func (r *fakeIdentityRepo) DeleteUser(_ context.Context, id string) error {
	p, ok := r.profiles.profiles[id]
	if !ok {
		return models.ErrNotFound
	}
	delete(r.creds, p.Email)
	delete(r.profiles.profiles, id)
	return nil
}

func (r *fakeIdentityRepo) GetCredentials(_ context.Context, email string) (*models.Credentials, error) {
	c, ok := r.creds[email]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeIdentityRepo) ConfirmEmail(_ context.Context, token string) error {
	for _, c := range r.creds {
		if c.ConfirmationToken != nil && *c.ConfirmationToken == token && c.EmailConfirmedAt == nil {
			now := time.Now()
			c.EmailConfirmedAt = &now
			c.ConfirmationToken = nil
			return nil
		}
	}
	return models.ErrInvalidToken
}

func (r *fakeIdentityRepo) SetConfirmationToken(_ context.Context, email, token string) error {
	c, ok := r.creds[email]
	if !ok || c.EmailConfirmedAt != nil {
		return models.ErrNotFound
	}
	c.ConfirmationToken = &token
	return nil
}

type fakeMailer struct {
	sent []struct{ To, Token string }
	fail bool
}

func (m *fakeMailer) SendConfirmation(to, token string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, struct{ To, Token string }{to, token})
	return nil
}
