package services

import "docshub/internal/models"

// FlattenDocument убирает junction-обёртку вокруг тегов и отдаёт плоскую
// view model. Функция чистая и тотальная: ноль тегов, пустая категория или
// отсутствующий автор — валидные входы, а не ошибки.
func FlattenDocument(row models.DocumentRow) models.DocumentWithRelations {
	out := models.DocumentWithRelations{
		Document: row.Document,
		Category: row.Category,
		Author:   row.Author,
		Tags:     make([]models.Tag, 0, len(row.Tags)),
	}
	for _, dt := range row.Tags {
		if dt.Tag == nil {
			continue
		}
		out.Tags = append(out.Tags, *dt.Tag)
	}
	return out
}

func FlattenDocuments(rows []models.DocumentRow) []models.DocumentWithRelations {
	out := make([]models.DocumentWithRelations, 0, len(rows))
	for _, r := range rows {
		out = append(out, FlattenDocument(r))
	}
	return out
}

// FilterByTag оставляет документы, среди тегов которых есть точное
// (с учётом регистра) совпадение slug.
func FilterByTag(docs []models.DocumentWithRelations, tagSlug string) []models.DocumentWithRelations {
	out := make([]models.DocumentWithRelations, 0, len(docs))
	for _, d := range docs {
		for _, t := range d.Tags {
			if t.Slug == tagSlug {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
