package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"docshub/internal/models"
)

type TaxonomyRepo struct {
	db *pgxpool.Pool
}

func NewTaxonomyRepo(db *pgxpool.Pool) *TaxonomyRepo { return &TaxonomyRepo{db: db} }

// ----- Categories -----

func (r *TaxonomyRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, icon, color, sort_order, created_at, updated_at
		FROM categories
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon,
			&c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *TaxonomyRepo) CreateCategory(ctx context.Context, c *models.Category) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name, slug, description, icon, color, sort_order)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		c.Name, c.Slug, c.Description, c.Icon, c.Color, c.SortOrder,
	).Scan(&id)
	return id, err
}

func (r *TaxonomyRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE categories SET name=$1, slug=$2, description=$3, icon=$4, color=$5, sort_order=$6, updated_at=now()
		 WHERE id=$7`,
		c.Name, c.Slug, c.Description, c.Icon, c.Color, c.SortOrder, c.ID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}

// ----- Tags -----

func (r *TaxonomyRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, slug, color, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaxonomyRepo) CreateTag(ctx context.Context, t *models.Tag) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO tags (name, slug, color) VALUES ($1,$2,$3) RETURNING id`,
		t.Name, t.Slug, t.Color,
	).Scan(&id)
	return id, err
}

func (r *TaxonomyRepo) UpdateTag(ctx context.Context, t *models.Tag) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE tags SET name=$1, slug=$2, color=$3 WHERE id=$4`,
		t.Name, t.Slug, t.Color, t.ID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) DeleteTag(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) TagSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tags WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}
