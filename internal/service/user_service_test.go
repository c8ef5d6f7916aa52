package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThierryWelling/simplo-ti/internal/models"
)

func newUserService(t *testing.T) (*UserService, *fakeIdentityRepo, *fakeProfileRepo, *fakeTicketRepo) {
	t.Helper()
	profiles := newFakeProfileRepo()
	tickets := newFakeTicketRepo()
	ids := newFakeIdentityRepo(profiles)
	return NewUserService(ids, profiles, tickets, zerolog.Nop()), ids, profiles, tickets
}

func TestCreateUserRequiresAdminInDatabase(t *testing.T) {
	svc, _, profiles, _ := newUserService(t)
	colab := profiles.add("Ana", models.RoleColaborador)

	_, err := svc.Create(context.Background(), colab.ID, CreateUserInput{
		Email: "novo@example.com", Name: "Novo", Password: "secret1", Role: models.RoleAuxiliar,
	})
	assert.ErrorIs(t, err, models.ErrNotAdmin)

	// A caller id with no profile row at all is rejected the same way.
	_, err = svc.Create(context.Background(), "ghost", CreateUserInput{
		Email: "novo@example.com", Name: "Novo", Password: "secret1", Role: models.RoleAuxiliar,
	})
	assert.ErrorIs(t, err, models.ErrNotAdmin)
}

func TestCreateUserPreConfirmed(t *testing.T) {
	svc, ids, profiles, _ := newUserService(t)
	admin := profiles.add("Root", models.RoleAdmin)

	p, err := svc.Create(context.Background(), admin.ID, CreateUserInput{
		Email: " Novo@Example.com ", Name: " Novo ", Password: "secret1", Role: models.RoleAuxiliar, Department: "TI",
	})
	require.NoError(t, err)
	assert.Equal(t, "novo@example.com", p.Email)
	assert.Equal(t, models.RoleAuxiliar, p.Role)

	creds, err := ids.GetCredentials(context.Background(), "novo@example.com")
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.True(t, creds.Confirmed(), "admin-created accounts skip confirmation")

	_, err = svc.Create(context.Background(), admin.ID, CreateUserInput{
		Email: "novo@example.com", Name: "Duplicado", Password: "secret1", Role: models.RoleColaborador,
	})
	assert.ErrorIs(t, err, models.ErrEmailTaken)

	_, err = svc.Create(context.Background(), admin.ID, CreateUserInput{
		Email: "outro@example.com", Name: "Outro", Password: "secret1", Role: "gerente",
	})
	assert.Error(t, err, "unknown role")
}

func TestUpdateUserPartialFields(t *testing.T) {
	svc, _, profiles, _ := newUserService(t)
	admin := profiles.add("Root", models.RoleAdmin)
	target := profiles.add("Ana", models.RoleColaborador)

	name := "  Ana Silva  "
	role := models.RoleAuxiliar
	points := 30
	got, err := svc.Update(context.Background(), admin.ID, target.ID, UpdateUserInput{
		Name: &name, Role: &role, Points: &points,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", got.Name)
	assert.Equal(t, models.RoleAuxiliar, got.Role)
	assert.Equal(t, 30, got.Points)
	assert.Equal(t, target.Email, got.Email, "untouched fields survive")

	bad := "gerente"
	_, err = svc.Update(context.Background(), admin.ID, target.ID, UpdateUserInput{Role: &bad})
	assert.Error(t, err)

	_, err = svc.Update(context.Background(), admin.ID, "nope", UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateRole(t *testing.T) {
	svc, _, profiles, _ := newUserService(t)
	admin := profiles.add("Root", models.RoleAdmin)
	target := profiles.add("Ana", models.RoleColaborador)

	got, err := svc.UpdateRole(context.Background(), admin.ID, target.ID, models.RoleAuxiliar)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuxiliar, got.Role)

	_, err = svc.UpdateRole(context.Background(), target.ID, admin.ID, models.RoleColaborador)
	assert.ErrorIs(t, err, models.ErrNotAdmin, "auxiliar cannot change roles")
}

func TestDeleteLastAdminBlocked(t *testing.T) {
	svc, _, profiles, _ := newUserService(t)
	admin := profiles.add("Root", models.RoleAdmin)

	err := svc.Delete(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, models.ErrLastAdmin)

	second := profiles.add("Backup", models.RoleAdmin)
	require.NoError(t, svc.Delete(context.Background(), admin.ID, second.ID))

	// Back down to one admin, protected again.
	err = svc.Delete(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, models.ErrLastAdmin)
}

func TestDeleteRemovesIdentityAndProfile(t *testing.T) {
	svc, ids, profiles, _ := newUserService(t)
	admin := profiles.add("Root", models.RoleAdmin)

	p, err := svc.Create(context.Background(), admin.ID, CreateUserInput{
		Email: "ana@example.com", Name: "Ana", Password: "secret1", Role: models.RoleColaborador,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), admin.ID, p.ID))

	gone, err := profiles.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	creds, err := ids.GetCredentials(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, creds, "credentials row goes with the profile")

	err = svc.Delete(context.Background(), admin.ID, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTicketStatsUnknownUser(t *testing.T) {
	svc, _, _, _ := newUserService(t)

	_, err := svc.TicketStats(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListRoleFilterValidation(t *testing.T) {
	svc, _, profiles, _ := newUserService(t)
	profiles.add("Ana", models.RoleColaborador)
	profiles.add("Bruno", models.RoleAuxiliar)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	aux, err := svc.List(context.Background(), models.RoleAuxiliar)
	require.NoError(t, err)
	require.Len(t, aux, 1)
	assert.Equal(t, "Bruno", aux[0].Name)

	_, err = svc.List(context.Background(), "gerente")
	assert.Error(t, err)
}
