package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Document struct {
	ID              uuid.UUID  `db:"id"               json:"id"`
	Title           string     `db:"title"            json:"title"`
	Slug            string     `db:"slug"             json:"slug"`
	Description     *string    `db:"description"      json:"description"`
	Content         string     `db:"content"          json:"content"`
	CategoryID      *uuid.UUID `db:"category_id"      json:"category_id"`
	Status          string     `db:"status"           json:"status"`
	Featured        bool       `db:"featured"         json:"featured"`
	AuthorID        *uuid.UUID `db:"author_id"        json:"author_id"`
	ViewCount       int64      `db:"view_count"       json:"view_count"`
	MetaTitle       *string    `db:"meta_title"       json:"meta_title"`
	MetaDescription *string    `db:"meta_description" json:"meta_description"`
	CreatedAt       time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updated_at"`
}

// TagJoin — обёртка junction-строки document_tags, как её отдаёт выборка с join.
// Tag == nil, если связанный тег не нашёлся.
type TagJoin struct {
	Tag *Tag `json:"tag"`
}

// DocumentRow — сырая строка выборки с отношениями, до уплощения.
type DocumentRow struct {
	Document
	Category *Category `json:"category"`
	Author   *Profile  `json:"author"`
	Tags     []TagJoin `json:"tags"`
}

// DocumentWithRelations — view model документа: теги уплощены до []Tag.
// Никогда не сохраняется, собирается заново на каждый запрос.
type DocumentWithRelations struct {
	Document
	Category *Category `json:"category,omitempty"`
	Author   *Profile  `json:"author,omitempty"`
	Tags     []Tag     `json:"tags"`
}

// DocumentFilter — набор критериев выборки. Все поля сравнимы,
// поэтому равенство наборов — обычное структурное ==.
type DocumentFilter struct {
	Status   string // точное совпадение
	Category string // category_id
	Tag      string // slug тега, применяется после уплощения
	Search   string // подстрока без учёта регистра: title OR description OR content
	Limit    int    // 0 — без ограничения
}

type TOCItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// swagger:model DocumentPage
type DocumentPage struct {
	Document DocumentWithRelations `json:"document"`
	TOC      []TOCItem             `json:"toc"`
	HTML     string                `json:"html"`
}

// swagger:model CreateDocumentRequest
type CreateDocumentRequest struct {
	Title           string      `json:"title"   example:"Установка и настройка"`
	Slug            string      `json:"slug"    example:"ustanovka-i-nastrojka"`
	Description     string      `json:"description"`
	Content         string      `json:"content" example:"# Введение\nТекст документа"`
	CategoryID      *uuid.UUID  `json:"category_id,omitempty"`
	Status          string      `json:"status"  example:"draft"`
	Featured        bool        `json:"featured"`
	MetaTitle       string      `json:"meta_title"`
	MetaDescription string      `json:"meta_description"`
	TagIDs          []uuid.UUID `json:"tag_ids"`
}
