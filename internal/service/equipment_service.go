package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/repository"
	"github.com/ThierryWelling/simplo-ti/internal/storage"
)

var ErrStorageDisabled = errors.New("image storage not configured")

type EquipmentService struct {
	repo   repository.EquipmentRepository
	images *storage.ImageStore // nil when object storage is not configured
	log    zerolog.Logger
}

func NewEquipmentService(repo repository.EquipmentRepository, images *storage.ImageStore, log zerolog.Logger) *EquipmentService {
	return &EquipmentService{repo: repo, images: images, log: log}
}

func (s *EquipmentService) List(ctx context.Context, q string) ([]models.Equipment, error) {
	return s.repo.List(ctx, q)
}

func (s *EquipmentService) Get(ctx context.Context, id string) (*models.Equipment, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, models.ErrNotFound
	}
	return e, nil
}

type EquipmentInput struct {
	Name            string
	Description     string
	CompanyName     string
	PatrimonyNumber string
}

func (s *EquipmentService) Create(ctx context.Context, in EquipmentInput, creatorID string) (*models.Equipment, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.PatrimonyNumber = strings.TrimSpace(in.PatrimonyNumber)
	if in.Name == "" || in.PatrimonyNumber == "" || strings.TrimSpace(in.CompanyName) == "" {
		return nil, errors.New("name, company and patrimony number are required")
	}

	e := &models.Equipment{
		Name:            in.Name,
		Description:     strings.TrimSpace(in.Description),
		CompanyName:     strings.TrimSpace(in.CompanyName),
		PatrimonyNumber: in.PatrimonyNumber,
	}
	if creatorID != "" {
		e.CreatedBy = &creatorID
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EquipmentService) Update(ctx context.Context, id string, in EquipmentInput) (*models.Equipment, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		e.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		e.Description = v
	}
	if v := strings.TrimSpace(in.CompanyName); v != "" {
		e.CompanyName = v
	}
	if v := strings.TrimSpace(in.PatrimonyNumber); v != "" {
		e.PatrimonyNumber = v
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// Orphaned objects are only a storage-cost problem, not a correctness one.
	if s.images != nil && e.ImageURL != nil {
		if err := s.images.Remove(ctx, *e.ImageURL); err != nil {
			s.log.Warn().Err(err).Str("equipment", id).Msg("image cleanup failed")
		}
	}
	return nil
}

// UploadImage stores the file under a random key and records its public URL
// on the equipment row.
func (s *EquipmentService) UploadImage(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string) (*models.Equipment, error) {
	if s.images == nil {
		return nil, ErrStorageDisabled
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, filename, r, size, contentType)
	if err != nil {
		return nil, err
	}
	return s.repo.SetImageURL(ctx, id, url)
}
