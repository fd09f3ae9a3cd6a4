package models

import (
	"time"

	"github.com/google/uuid"
)

type AppSettings struct {
	ID              uuid.UUID `json:"id"`
	SiteName        string    `json:"site_name"`
	SiteDescription string    `json:"site_description"`
	LogoURL         *string   `json:"logo_url"`
	FaviconURL      *string   `json:"favicon_url"`
	AccentColor     string    `json:"accent_color"`
	FooterText      string    `json:"footer_text"`
	EnableSearch    bool      `json:"enable_search"`
	EnableDarkMode  bool      `json:"enable_dark_mode"`
	DefaultTheme    string    `json:"default_theme"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// swagger:model UpdateSettingsRequest
type UpdateSettingsRequest struct {
	SiteName        *string `json:"site_name,omitempty"`
	SiteDescription *string `json:"site_description,omitempty"`
	LogoURL         *string `json:"logo_url,omitempty"`
	FaviconURL      *string `json:"favicon_url,omitempty"`
	AccentColor     *string `json:"accent_color,omitempty"`
	FooterText      *string `json:"footer_text,omitempty"`
	EnableSearch    *bool   `json:"enable_search,omitempty"`
	EnableDarkMode  *bool   `json:"enable_dark_mode,omitempty"`
	DefaultTheme    *string `json:"default_theme,omitempty"`
}
