package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThierryWelling/simplo-ti/internal/models"
)

type fakeEquipmentRepo struct {
	seq   int
	items map[string]*models.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: map[string]*models.Equipment{}}
}

func (r *fakeEquipmentRepo) List(_ context.Context, q string) ([]models.Equipment, error) {
	var out []models.Equipment
	for _, e := range r.items {
		if q == "" || strings.Contains(e.Name, q) || strings.Contains(e.PatrimonyNumber, q) || strings.Contains(e.CompanyName, q) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeEquipmentRepo) Get(_ context.Context, id string) (*models.Equipment, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEquipmentRepo) Create(_ context.Context, e *models.Equipment) error {
	for _, other := range r.items {
		if other.PatrimonyNumber == e.PatrimonyNumber {
			return models.ErrPatrimonyTaken
		}
	}
	r.seq++
	e.ID = fmt.Sprintf("e%d", r.seq)
	e.CreatedAt = time.Now()
	cp := *e
	r.items[e.ID] = &cp
	return nil
}

func (r *fakeEquipmentRepo) Update(_ context.Context, e *models.Equipment) error {
	if _, ok := r.items[e.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *e
	r.items[e.ID] = &cp
	return nil
}

func (r *fakeEquipmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEquipmentRepo) SetImageURL(ctx context.Context, id, url string) (*models.Equipment, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	e.ImageURL = &url
	return r.Get(ctx, id)
}

func newEquipmentService(t *testing.T) (*EquipmentService, *fakeEquipmentRepo) {
	t.Helper()
	repo := newFakeEquipmentRepo()
	return NewEquipmentService(repo, nil, zerolog.Nop()), repo
}

func TestCreateEquipment(t *testing.T) {
	svc, _ := newEquipmentService(t)

	e, err := svc.Create(context.Background(), EquipmentInput{
		Name:            " Notebook Dell ",
		CompanyName:     "Simplo",
		PatrimonyNumber: " NB-001 ",
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Notebook Dell", e.Name)
	assert.Equal(t, "NB-001", e.PatrimonyNumber)
	require.NotNil(t, e.CreatedBy)
	assert.Equal(t, "u1", *e.CreatedBy)

	_, err = svc.Create(context.Background(), EquipmentInput{
		Name: "Outro", CompanyName: "Simplo", PatrimonyNumber: "NB-001",
	}, "u1")
	assert.ErrorIs(t, err, models.ErrPatrimonyTaken)

	_, err = svc.Create(context.Background(), EquipmentInput{Name: "Sem patrimonio", CompanyName: "Simplo"}, "u1")
	assert.Error(t, err)
}

func TestUpdateEquipmentKeepsBlankFields(t *testing.T) {
	svc, _ := newEquipmentService(t)

	e, err := svc.Create(context.Background(), EquipmentInput{
		Name: "Monitor", CompanyName: "Simplo", PatrimonyNumber: "MN-010", Description: "24 pol",
	}, "u1")
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), e.ID, EquipmentInput{Name: "Monitor LG"})
	require.NoError(t, err)
	assert.Equal(t, "Monitor LG", got.Name)
	assert.Equal(t, "24 pol", got.Description)
	assert.Equal(t, "MN-010", got.PatrimonyNumber)

	_, err = svc.Update(context.Background(), "nope", EquipmentInput{Name: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteEquipment(t *testing.T) {
	svc, repo := newEquipmentService(t)

	e, err := svc.Create(context.Background(), EquipmentInput{
		Name: "Teclado", CompanyName: "Simplo", PatrimonyNumber: "TC-001",
	}, "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), e.ID))
	assert.Empty(t, repo.items)

	assert.ErrorIs(t, svc.Delete(context.Background(), e.ID), models.ErrNotFound)
}

func TestUploadImageWithoutStorage(t *testing.T) {
	svc, _ := newEquipmentService(t)

	e, err := svc.Create(context.Background(), EquipmentInput{
		Name: "Mouse", CompanyName: "Simplo", PatrimonyNumber: "MS-001",
	}, "u1")
	require.NoError(t, err)

	_, err = svc.UploadImage(context.Background(), e.ID, "foto.png", strings.NewReader("img"), 3, "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestListEquipmentSearch(t *testing.T) {
	svc, _ := newEquipmentService(t)

	_, err := svc.Create(context.Background(), EquipmentInput{Name: "Notebook", CompanyName: "Simplo", PatrimonyNumber: "NB-001"}, "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), EquipmentInput{Name: "Monitor", CompanyName: "Simplo", PatrimonyNumber: "MN-001"}, "")
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	nb, err := svc.List(context.Background(), "NB")
	require.NoError(t, err)
	require.Len(t, nb, 1)
	assert.Equal(t, "Notebook", nb[0].Name)
}
