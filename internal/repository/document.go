package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docshub/internal/models"
)

// ErrNotFound — выборка по slug/id не нашла ни одной строки.
var ErrNotFound = errors.New("не найдено")

type DocumentRepo interface {
	List(ctx context.Context, f models.DocumentFilter) ([]models.DocumentRow, error)
	GetBySlug(ctx context.Context, slug string) (*models.DocumentRow, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentRow, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Create(ctx context.Context, d *models.Document, tagIDs []uuid.UUID) (*models.Document, error)
	Update(ctx context.Context, d *models.Document, tagIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type documentRepo struct{ db *pgxpool.Pool }

func NewDocumentRepo(db *pgxpool.Pool) DocumentRepo { return &documentRepo{db: db} }

// selectWithRelations собирает документ вместе с категорией, автором и тегами
// за один запрос. Отношения отдаются как jsonb: категория/автор — объект или NULL,
// теги — массив junction-обёрток {"tag": {...}} в порядке вставки junction-строк.
const selectWithRelations = `
	SELECT d.id, d.title, d.slug, d.description, d.content, d.category_id,
	       d.status, d.featured, d.author_id, d.view_count,
	       d.meta_title, d.meta_description, d.created_at, d.updated_at,
	       to_jsonb(c) AS category,
	       to_jsonb(p) AS author,
	       (
	         SELECT jsonb_agg(jsonb_build_object('tag', to_jsonb(t)) ORDER BY dt.created_at)
	         FROM document_tags dt
	         LEFT JOIN tags t ON t.id = dt.tag_id
	         WHERE dt.document_id = d.id
	       ) AS tags
	FROM documents d
	LEFT JOIN categories c ON c.id = d.category_id
	LEFT JOIN profiles p ON p.id = d.author_id
`

// buildListQuery превращает набор фильтров в SQL. Фильтр по тегу сюда
// не попадает никогда: принадлежность тегу видна только после уплощения
// junction-строк, его применяет сервис.
func buildListQuery(f models.DocumentFilter) (string, []any, error) {
	where := []string{}
	args := []any{}
	i := 1

	if f.Status != "" {
		where = append(where, fmt.Sprintf("d.status = $%d", i))
		args = append(args, f.Status)
		i++
	}
	if f.Category != "" {
		cid, err := uuid.Parse(f.Category)
		if err != nil {
			return "", nil, fmt.Errorf("неверный id категории %q: %w", f.Category, err)
		}
		where = append(where, fmt.Sprintf("d.category_id = $%d", i))
		args = append(args, cid)
		i++
	}
	if f.Search != "" {
		// подстрока без учёта регистра по любому из трёх полей
		where = append(where, fmt.Sprintf(
			"(d.title ILIKE $%d OR d.description ILIKE $%d OR d.content ILIKE $%d)", i, i, i))
		args = append(args, "%"+f.Search+"%")
		i++
	}

	sql := selectWithRelations
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY d.created_at DESC"
	if f.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, f.Limit)
	}
	return sql, args, nil
}

func (r *documentRepo) List(ctx context.Context, f models.DocumentFilter) ([]models.DocumentRow, error) {
	sql, args, err := buildListQuery(f)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.DocumentRow
	for rows.Next() {
		row, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *row)
	}
	return list, rows.Err()
}

func (r *documentRepo) GetBySlug(ctx context.Context, slug string) (*models.DocumentRow, error) {
	// публичная выборка: только опубликованные
	q := selectWithRelations + " WHERE d.slug = $1 AND d.status = $2"
	row, err := scanDocumentRow(r.db.QueryRow(ctx, q, slug, models.StatusPublished))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return row, err
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentRow, error) {
	q := selectWithRelations + " WHERE d.id = $1"
	row, err := scanDocumentRow(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return row, err
}

// IncrementViews — единственная запись в documents со стороны читающего
// контура: атомарный инкремент на стороне БД, без read-modify-write.
func (r *documentRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE documents SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (r *documentRepo) Create(ctx context.Context, d *models.Document, tagIDs []uuid.UUID) (*models.Document, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO documents (title, slug, description, content, category_id, status,
		                       featured, author_id, meta_title, meta_description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, view_count, created_at, updated_at
	`
	out := *d
	err = tx.QueryRow(ctx, q,
		d.Title, d.Slug, d.Description, d.Content, d.CategoryID, d.Status,
		d.Featured, d.AuthorID, d.MetaTitle, d.MetaDescription,
	).Scan(&out.ID, &out.ViewCount, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := replaceTags(ctx, tx, out.ID, tagIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *documentRepo) Update(ctx context.Context, d *models.Document, tagIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// view_count намеренно не трогаем: он меняется только через IncrementViews
	const q = `
		UPDATE documents
		SET title=$1, slug=$2, description=$3, content=$4, category_id=$5,
		    status=$6, featured=$7, meta_title=$8, meta_description=$9,
		    updated_at=NOW()
		WHERE id=$10
	`
	ct, err := tx.Exec(ctx, q,
		d.Title, d.Slug, d.Description, d.Content, d.CategoryID,
		d.Status, d.Featured, d.MetaTitle, d.MetaDescription, d.ID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := replaceTags(ctx, tx, d.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE documents SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM documents WHERE slug=$1)`, slug).Scan(&ok)
	return ok, err
}

func replaceTags(ctx context.Context, tx pgx.Tx, docID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM document_tags WHERE document_id=$1`, docID); err != nil {
		return err
	}
	for _, tid := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO document_tags (document_id, tag_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			docID, tid,
		); err != nil {
			return err
		}
	}
	return nil
}

// scanDocumentRow читает строку selectWithRelations. Отношения приходят как
// jsonb ([]byte) и могут быть NULL — это валидное отсутствие, не ошибка.
func scanDocumentRow(row pgx.Row) (*models.DocumentRow, error) {
	var out models.DocumentRow
	var categoryRaw, authorRaw, tagsRaw []byte

	if err := row.Scan(
		&out.Document.ID, &out.Title, &out.Document.Slug, &out.Description, &out.Content,
		&out.CategoryID, &out.Status, &out.Featured, &out.AuthorID, &out.ViewCount,
		&out.MetaTitle, &out.MetaDescription, &out.Document.CreatedAt, &out.Document.UpdatedAt,
		&categoryRaw, &authorRaw, &tagsRaw,
	); err != nil {
		return nil, err
	}

	if len(categoryRaw) > 0 {
		_ = json.Unmarshal(categoryRaw, &out.Category)
	}
	if len(authorRaw) > 0 {
		_ = json.Unmarshal(authorRaw, &out.Author)
	}
	if len(tagsRaw) > 0 {
		_ = json.Unmarshal(tagsRaw, &out.Tags)
	}
	return &out, nil
}
