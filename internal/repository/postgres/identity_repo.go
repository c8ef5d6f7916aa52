package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThierryWelling/simplo-ti/internal/models"
)

// IdentityRepo owns the credentials table and the operations that must touch
// credentials and profiles together. Profile creation and deletion always
// happen in the same transaction as the identity, so a failure can never
// leave one side orphaned.
type IdentityRepo struct{ db *pgxpool.Pool }

func NewIdentityRepo(db *pgxpool.Pool) *IdentityRepo { return &IdentityRepo{db: db} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *IdentityRepo) CreateUser(ctx context.Context, p *models.Profile, passwordHash string, confirmed bool, confirmationToken string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var token any
	if confirmationToken != "" {
		token = confirmationToken
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO credentials (email, password_hash, email_confirmed_at, confirmation_token)
		VALUES ($1, $2, CASE WHEN $3 THEN now() END, $4)
		RETURNING id
	`, p.Email, passwordHash, confirmed, token).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailTaken
		}
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO profiles (id, email, name, role, department, points)
		VALUES ($1,$2,$3,$4,$5,0)
		RETURNING created_at
	`, p.ID, p.Email, p.Name, p.Role, p.Department).Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailTaken
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *IdentityRepo) DeleteUser(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM credentials WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *IdentityRepo) GetCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	var c models.Credentials
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, email_confirmed_at, confirmation_token, created_at
		FROM credentials WHERE email=$1
	`, email).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.EmailConfirmedAt, &c.ConfirmationToken, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *IdentityRepo) ConfirmEmail(ctx context.Context, token string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE credentials
		SET email_confirmed_at=now(), confirmation_token=NULL
		WHERE confirmation_token=$1 AND email_confirmed_at IS NULL
	`, token)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrInvalidToken
	}
	return nil
}

func (r *IdentityRepo) SetConfirmationToken(ctx context.Context, email, token string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE credentials
		SET confirmation_token=$1
		WHERE email=$2 AND email_confirmed_at IS NULL
	`, token, email)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
