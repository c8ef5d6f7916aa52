package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/repository"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) *TicketRepo { return &TicketRepo{db: db} }

const ticketCols = `
	t.id, t.title, t.description, t.category, t.priority, t.status,
	t.created_by, t.assigned_to, t.created_at, t.updated_at, t.closed_at,
	t.rating, t.points,
	COALESCE(c.name, ''), COALESCE(a.name, '')`

const ticketJoins = `
	FROM tickets t
	LEFT JOIN profiles c ON c.id = t.created_by
	LEFT JOIN profiles a ON a.id = t.assigned_to`

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Status,
		&t.CreatedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt, &t.ClosedAt,
		&t.Rating, &t.Points,
		&t.CreatorName, &t.AssigneeName,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	now := time.Now()
	return r.db.QueryRow(ctx, `
		INSERT INTO tickets (title, description, category, priority, status, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`,
		t.Title, t.Description, t.Category, t.Priority, models.StatusAberto, t.CreatedBy, now,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT`+ticketCols+ticketJoins+` WHERE t.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	updates, err := r.ListUpdates(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Updates = updates
	return t, nil
}

// List returns tickets newest first. No keyset pagination: ticket volumes in
// an internal helpdesk stay small, limit/offset is enough.
func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	whereSQL, args := buildTicketWhere(f)
	args = append(args, f.Limit, f.Offset)

	sql := `SELECT` + ticketCols + ticketJoins + `
		` + whereSQL + `
		ORDER BY t.created_at DESC
		LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Assign claims the ticket for userID. The WHERE clause is the invariant:
// only an unassigned ticket can be claimed, so two concurrent claimers cannot
// both win.
func (r *TicketRepo) Assign(ctx context.Context, ticketID, userID string) (*models.Ticket, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets
		SET assigned_to=$1, status=$2, updated_at=now()
		WHERE id=$3 AND assigned_to IS NULL
	`, userID, models.StatusEmAndamento, ticketID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		t, err := r.Get(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, models.ErrNotFound
		}
		return nil, models.ErrAlreadyAssigned
	}
	return r.Get(ctx, ticketID)
}

func (r *TicketRepo) Close(ctx context.Context, ticketID string) (*models.Ticket, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets
		SET status=$1, closed_at=now(), updated_at=now()
		WHERE id=$2
	`, models.StatusConcluido, ticketID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.Get(ctx, ticketID)
}

// Rate records the rating and the points it yielded. One shot only: the WHERE
// clause refuses unassigned and already-rated tickets.
func (r *TicketRepo) Rate(ctx context.Context, ticketID string, rating, points int) (*models.Ticket, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets
		SET rating=$1, points=$2, updated_at=now()
		WHERE id=$3 AND assigned_to IS NOT NULL AND rating IS NULL
	`, rating, points, ticketID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		t, err := r.Get(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		switch {
		case t == nil:
			return nil, models.ErrNotFound
		case t.AssignedTo == nil:
			return nil, models.ErrNoAssignee
		default:
			return nil, models.ErrAlreadyRated
		}
	}
	return r.Get(ctx, ticketID)
}

func (r *TicketRepo) AddUpdate(ctx context.Context, u *models.TicketUpdate) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO ticket_updates (ticket_id, message, created_by)
		VALUES ($1,$2,$3)
		RETURNING id, created_at
	`, u.TicketID, u.Message, u.CreatedBy).Scan(&u.ID, &u.CreatedAt)
}

func (r *TicketRepo) ListUpdates(ctx context.Context, ticketID string) ([]models.TicketUpdate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, ticket_id, message, created_by, created_at
		FROM ticket_updates
		WHERE ticket_id = $1
		ORDER BY created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TicketUpdate
	for rows.Next() {
		var u models.TicketUpdate
		if err := rows.Scan(&u.ID, &u.TicketID, &u.Message, &u.CreatedBy, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Stats counts every status bucket in one query, so the numbers come from a
// single snapshot instead of three racing counts.
func (r *TicketRepo) Stats(ctx context.Context) (models.TicketStats, error) {
	var s models.TicketStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'aberto'),
			COUNT(*) FILTER (WHERE status = 'em_andamento'),
			COUNT(*) FILTER (WHERE status = 'concluido')
		FROM tickets
	`).Scan(&s.Open, &s.InProgress, &s.Completed)
	if err != nil {
		return models.TicketStats{}, err
	}
	s.Total = s.Open + s.InProgress + s.Completed
	return s, nil
}

func (r *TicketRepo) UserStats(ctx context.Context, userID string) (models.UserTicketStats, error) {
	var s models.UserTicketStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_by = $1),
			COUNT(*) FILTER (WHERE assigned_to = $1),
			COUNT(*) FILTER (WHERE assigned_to = $1 AND status = 'concluido')
		FROM tickets
	`, userID).Scan(&s.Created, &s.Assigned, &s.Completed)
	if err != nil {
		return models.UserTicketStats{}, err
	}
	return s, nil
}

// buildTicketWhere composes the WHERE clause and args for a TicketFilter.
func buildTicketWhere(f repository.TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(f.Q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(t.title ILIKE $"+itoa(len(args)-1)+" OR t.description ILIKE $"+itoa(len(args))+")")
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.status = $"+itoa(len(args)))
	}
	if s := strings.TrimSpace(f.CreatedBy); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.created_by = $"+itoa(len(args)))
	}

	switch {
	case len(f.AssignedTo) > 0 && f.Unassigned:
		args = append(args, f.AssignedTo)
		clauses = append(clauses, "(t.assigned_to IS NULL OR t.assigned_to = ANY($"+itoa(len(args))+"))")
	case len(f.AssignedTo) > 0:
		args = append(args, f.AssignedTo)
		clauses = append(clauses, "t.assigned_to = ANY($"+itoa(len(args))+")")
	case f.Unassigned:
		clauses = append(clauses, "t.assigned_to IS NULL")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// small helper to avoid fmt on a hot path.
func itoa(i int) string { return strconv.Itoa(i) }
