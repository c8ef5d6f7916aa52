package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThierryWelling/simplo-ti/internal/models"
)

type EquipmentRepo struct{ db *pgxpool.Pool }

func NewEquipmentRepo(db *pgxpool.Pool) *EquipmentRepo { return &EquipmentRepo{db: db} }

const equipmentCols = `id, name, COALESCE(description, ''), company_name, patrimony_number, image_url, created_by, created_at, updated_at`

func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CompanyName, &e.PatrimonyNumber,
		&e.ImageURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepo) List(ctx context.Context, q string) ([]models.Equipment, error) {
	sql := `SELECT ` + equipmentCols + ` FROM equipment`
	args := []any{}
	if s := strings.TrimSpace(q); s != "" {
		sql += ` WHERE name ILIKE $1 OR patrimony_number ILIKE $1 OR company_name ILIKE $1`
		args = append(args, "%"+s+"%")
	}
	sql += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EquipmentRepo) Get(ctx context.Context, id string) (*models.Equipment, error) {
	e, err := scanEquipment(r.db.QueryRow(ctx, `SELECT `+equipmentCols+` FROM equipment WHERE id=$1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (r *EquipmentRepo) Create(ctx context.Context, e *models.Equipment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO equipment (name, description, company_name, patrimony_number, image_url, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, e.Name, e.Description, e.CompanyName, e.PatrimonyNumber, e.ImageURL, e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return models.ErrPatrimonyTaken
	}
	return err
}

func (r *EquipmentRepo) Update(ctx context.Context, e *models.Equipment) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE equipment
		SET name=$1, description=$2, company_name=$3, patrimony_number=$4, updated_at=now()
		WHERE id=$5
	`, e.Name, e.Description, e.CompanyName, e.PatrimonyNumber, e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrPatrimonyTaken
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM equipment WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepo) SetImageURL(ctx context.Context, id, url string) (*models.Equipment, error) {
	e, err := scanEquipment(r.db.QueryRow(ctx, `
		UPDATE equipment
		SET image_url=$1, updated_at=now()
		WHERE id=$2
		RETURNING `+equipmentCols, url, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
