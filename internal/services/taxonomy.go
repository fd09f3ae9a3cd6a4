package services

import (
	"context"
	"errors"
	"strings"

	"docshub/internal/logger"
	"docshub/internal/models"
	"docshub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaxonomyService struct{ repo *repository.TaxonomyRepo }

func NewTaxonomyService(r *repository.TaxonomyRepo) *TaxonomyService {
	return &TaxonomyService{repo: r}
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, req models.CategoryRequest) (uuid.UUID, error) {
	log := logger.WithCtx(ctx)

	c, err := categoryFromRequest(req)
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := s.repo.CategorySlugExists(ctx, c.Slug)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, errors.New("категория с таким slug уже существует")
	}

	id, err := s.repo.CreateCategory(ctx, c)
	if err != nil {
		log.Error("Ошибка создания категории (repo)", zap.Error(err))
		return uuid.Nil, err
	}
	return id, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id uuid.UUID, req models.CategoryRequest) error {
	c, err := categoryFromRequest(req)
	if err != nil {
		return err
	}
	c.ID = id
	return s.repo.UpdateCategory(ctx, c)
}

func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *TaxonomyService) CreateTag(ctx context.Context, req models.TagRequest) (uuid.UUID, error) {
	log := logger.WithCtx(ctx)

	t, err := tagFromRequest(req)
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := s.repo.TagSlugExists(ctx, t.Slug)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, errors.New("тег с таким slug уже существует")
	}

	id, err := s.repo.CreateTag(ctx, t)
	if err != nil {
		log.Error("Ошибка создания тега (repo)", zap.Error(err))
		return uuid.Nil, err
	}
	return id, nil
}

func (s *TaxonomyService) UpdateTag(ctx context.Context, id uuid.UUID, req models.TagRequest) error {
	t, err := tagFromRequest(req)
	if err != nil {
		return err
	}
	t.ID = id
	return s.repo.UpdateTag(ctx, t)
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTag(ctx, id)
}

func categoryFromRequest(req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	slug := strings.TrimSpace(req.Slug)
	if name == "" || slug == "" {
		return nil, errors.New("имя и slug категории обязательны")
	}
	return &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strPtr(req.Description),
		Icon:        strPtr(req.Icon),
		Color:       req.Color,
		SortOrder:   req.SortOrder,
	}, nil
}

func tagFromRequest(req models.TagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(req.Name)
	slug := strings.TrimSpace(req.Slug)
	if name == "" || slug == "" {
		return nil, errors.New("имя и slug тега обязательны")
	}
	return &models.Tag{Name: name, Slug: slug, Color: req.Color}, nil
}
