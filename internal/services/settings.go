package services

import (
	"context"

	"docshub/internal/logger"
	"docshub/internal/models"
	"docshub/internal/repository"

	"go.uber.org/zap"
)

type SettingsService struct{ repo *repository.SettingsRepo }

func NewSettingsService(r *repository.SettingsRepo) *SettingsService {
	return &SettingsService{repo: r}
}

func (s *SettingsService) Get(ctx context.Context) (*models.AppSettings, error) {
	return s.repo.Get(ctx)
}

// Update накладывает частичное обновление на текущую строку настроек
// и возвращает результат.
func (s *SettingsService) Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.AppSettings, error) {
	log := logger.WithCtx(ctx)

	cur, err := s.repo.Get(ctx)
	if err != nil {
		log.Error("Ошибка чтения настроек (repo)", zap.Error(err))
		return nil, err
	}

	if req.SiteName != nil {
		cur.SiteName = *req.SiteName
	}
	if req.SiteDescription != nil {
		cur.SiteDescription = *req.SiteDescription
	}
	if req.LogoURL != nil {
		cur.LogoURL = req.LogoURL
	}
	if req.FaviconURL != nil {
		cur.FaviconURL = req.FaviconURL
	}
	if req.AccentColor != nil {
		cur.AccentColor = *req.AccentColor
	}
	if req.FooterText != nil {
		cur.FooterText = *req.FooterText
	}
	if req.EnableSearch != nil {
		cur.EnableSearch = *req.EnableSearch
	}
	if req.EnableDarkMode != nil {
		cur.EnableDarkMode = *req.EnableDarkMode
	}
	if req.DefaultTheme != nil {
		cur.DefaultTheme = *req.DefaultTheme
	}

	if err := s.repo.Update(ctx, cur); err != nil {
		log.Error("Ошибка сохранения настроек (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Настройки сайта обновлены", zap.String("site_name", cur.SiteName))
	return cur, nil
}
