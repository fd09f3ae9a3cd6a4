package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// swagger:model CategoryRequest
type CategoryRequest struct {
	Name        string `json:"name"  example:"Руководства"`
	Slug        string `json:"slug"  example:"rukovodstva"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color" example:"#2563eb"`
	SortOrder   int    `json:"sort_order"`
}

// swagger:model TagRequest
type TagRequest struct {
	Name  string `json:"name"  example:"go"`
	Slug  string `json:"slug"  example:"go"`
	Color string `json:"color" example:"#16a34a"`
}
