package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ThierryWelling/simplo-ti/internal/mailer"
	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/repository"
	"github.com/ThierryWelling/simplo-ti/internal/utils"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	ids           repository.IdentityRepository
	profiles      repository.ProfileRepository
	mail          mailer.Mailer
	sessionSecret string
	log           zerolog.Logger
}

func NewAuthService(ids repository.IdentityRepository, profiles repository.ProfileRepository, mail mailer.Mailer, sessionSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{ids: ids, profiles: profiles, mail: mail, sessionSecret: sessionSecret, log: log}
}

// Register creates identity + profile for a self-service signup. The very
// first profile in the system becomes admin; everyone after that starts as
// colaborador. The account stays unconfirmed until the emailed token is used.
func (a *AuthService) Register(ctx context.Context, email, name, password, department string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || len(password) < 6 {
		return nil, errors.New("invalid input")
	}

	if err := a.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}

	count, err := a.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := models.RoleColaborador
	if count == 0 {
		role = models.RoleAdmin
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	p := &models.Profile{
		Email:      email,
		Name:       name,
		Role:       role,
		Department: strings.TrimSpace(department),
	}
	token := uuid.NewString()
	if err := a.ids.CreateUser(ctx, p, hash, false, token); err != nil {
		return nil, err
	}

	if err := a.mail.SendConfirmation(email, token); err != nil {
		// The account exists; the user can ask for a resend.
		a.log.Warn().Err(err).Str("email", email).Msg("confirmation email failed")
	}
	return p, nil
}

// Login verifies credentials and returns a signed session token. An
// unconfirmed email is a distinguished state, not a credential failure.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	creds, err := a.ids.GetCredentials(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if creds == nil || !utils.CheckPassword(creds.PasswordHash, password) {
		return "", nil, models.ErrInvalidCredentials
	}
	if !creds.Confirmed() {
		return "", nil, models.ErrEmailNotConfirmed
	}

	p, err := a.profiles.GetByID(ctx, creds.ID)
	if err != nil {
		return "", nil, err
	}
	if p == nil {
		return "", nil, models.ErrNotFound
	}

	tok, err := utils.SignJWT(a.sessionSecret, p.ID, p.Role, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, p, nil
}

func (a *AuthService) Confirm(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return models.ErrInvalidToken
	}
	return a.ids.ConfirmEmail(ctx, token)
}

func (a *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	creds, err := a.ids.GetCredentials(ctx, email)
	if err != nil {
		return err
	}
	if creds == nil {
		return models.ErrNotFound
	}
	if creds.Confirmed() {
		return nil
	}
	token := uuid.NewString()
	if err := a.ids.SetConfirmationToken(ctx, email, token); err != nil {
		return err
	}
	return a.mail.SendConfirmation(email, token)
}

// Setup bootstraps the initial admin. It only works while the system has no
// profiles at all; after that it is permanently closed.
func (a *AuthService) Setup(ctx context.Context, email, name, password, department string) (*models.Profile, error) {
	count, err := a.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.ErrAlreadySetUp
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(name) == "" || len(password) < 6 {
		return nil, errors.New("invalid input")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	p := &models.Profile{
		Email:      email,
		Name:       strings.TrimSpace(name),
		Role:       models.RoleAdmin,
		Department: strings.TrimSpace(department),
	}
	if err := a.ids.CreateUser(ctx, p, hash, true, ""); err != nil {
		return nil, err
	}
	return p, nil
}

// checkEmailFree looks in both the identity table and the profile table, like
// the original system checked auth and profiles separately. The unique
// constraints are the real guard; this exists for the friendlier error.
func (a *AuthService) checkEmailFree(ctx context.Context, email string) error {
	creds, err := a.ids.GetCredentials(ctx, email)
	if err != nil {
		return err
	}
	if creds != nil {
		return models.ErrEmailTaken
	}
	p, err := a.profiles.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if p != nil {
		return models.ErrEmailTaken
	}
	return nil
}
