package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docshub/internal/models"
)

type SettingsRepo struct {
	db *pgxpool.Pool
}

func NewSettingsRepo(db *pgxpool.Pool) *SettingsRepo { return &SettingsRepo{db: db} }

// Get читает единственную строку app_settings.
func (r *SettingsRepo) Get(ctx context.Context) (*models.AppSettings, error) {
	var s models.AppSettings
	err := r.db.QueryRow(ctx, `
		SELECT id, site_name, site_description, logo_url, favicon_url, accent_color,
		       footer_text, enable_search, enable_dark_mode, default_theme,
		       created_at, updated_at
		FROM app_settings
		LIMIT 1`,
	).Scan(
		&s.ID, &s.SiteName, &s.SiteDescription, &s.LogoURL, &s.FaviconURL, &s.AccentColor,
		&s.FooterText, &s.EnableSearch, &s.EnableDarkMode, &s.DefaultTheme,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepo) Update(ctx context.Context, s *models.AppSettings) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE app_settings
		SET site_name=$1, site_description=$2, logo_url=$3, favicon_url=$4,
		    accent_color=$5, footer_text=$6, enable_search=$7, enable_dark_mode=$8,
		    default_theme=$9, updated_at=now()
		WHERE id=$10`,
		s.SiteName, s.SiteDescription, s.LogoURL, s.FaviconURL,
		s.AccentColor, s.FooterText, s.EnableSearch, s.EnableDarkMode,
		s.DefaultTheme, s.ID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
