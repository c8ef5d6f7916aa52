package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThierryWelling/simplo-ti/internal/models"
)

type ProfileRepo struct{ db *pgxpool.Pool }

func NewProfileRepo(db *pgxpool.Pool) *ProfileRepo { return &ProfileRepo{db: db} }

const profileCols = `id, email, name, role, COALESCE(department, ''), points, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &p.Department, &p.Points, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE id=$1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE email=$1`, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns profiles ordered by name, optionally restricted to a role.
func (r *ProfileRepo) List(ctx context.Context, role string) ([]models.Profile, error) {
	sql := `SELECT ` + profileCols + ` FROM profiles`
	args := []any{}
	if role != "" {
		sql += ` WHERE role=$1`
		args = append(args, role)
	}
	sql += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET email=$1, name=$2, role=$3, department=$4, points=$5, updated_at=now()
		WHERE id=$6
	`, p.Email, p.Name, p.Role, p.Department, p.Points, p.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProfileRepo) UpdateRole(ctx context.Context, id, role string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `
		UPDATE profiles
		SET role=$1, updated_at=now()
		WHERE id=$2
		RETURNING `+profileCols, role, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// AddPoints is a single-statement increment, immune to concurrent raters of
// different tickets assigned to the same auxiliar.
func (r *ProfileRepo) AddPoints(ctx context.Context, id string, points int) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET points = points + $1, updated_at=now()
		WHERE id=$2
	`, points, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProfileRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}

func (r *ProfileRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role='admin'`).Scan(&n)
	return n, err
}

func (r *ProfileRepo) TopAuxiliares(ctx context.Context, limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+profileCols+`
		FROM profiles
		WHERE role='auxiliar'
		ORDER BY points DESC, name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProfileRepo) RoleStats(ctx context.Context) (models.UserStats, error) {
	var s models.UserStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE role = 'colaborador'),
			COUNT(*) FILTER (WHERE role = 'auxiliar'),
			COUNT(*) FILTER (WHERE role = 'admin')
		FROM profiles
	`).Scan(&s.Colaboradores, &s.Auxiliares, &s.Admins)
	if err != nil {
		return models.UserStats{}, err
	}
	s.Total = s.Colaboradores + s.Auxiliares + s.Admins
	return s, nil
}
