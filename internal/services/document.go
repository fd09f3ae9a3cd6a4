package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"docshub/internal/logger"
	"docshub/internal/models"
	"docshub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentService interface {
	List(ctx context.Context, f models.DocumentFilter) ([]models.DocumentWithRelations, error)
	GetBySlug(ctx context.Context, slug string) (*models.DocumentWithRelations, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentWithRelations, error)
	Search(ctx context.Context, query string) ([]models.DocumentWithRelations, error)
	Create(ctx context.Context, authorID *uuid.UUID, req models.CreateDocumentRequest) (*models.Document, error)
	Update(ctx context.Context, id uuid.UUID, req models.CreateDocumentRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

type documentService struct {
	repo repository.DocumentRepo
}

func NewDocumentService(repo repository.DocumentRepo) DocumentService {
	return &documentService{repo: repo}
}

// List выполняет конвейер выборки: запрос к БД → уплощение отношений →
// пост-фильтр по тегу. Этапы строго последовательны, каждый получает полный
// результат предыдущего.
func (s *documentService) List(ctx context.Context, f models.DocumentFilter) ([]models.DocumentWithRelations, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка документов",
		zap.String("status", f.Status),
		zap.String("category", f.Category),
		zap.String("tag", f.Tag),
		zap.String("search", f.Search),
		zap.Int("limit", f.Limit),
	)

	rows, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error("Ошибка получения списка документов (repo)", zap.Error(err))
		return nil, err
	}

	docs := FlattenDocuments(rows)
	if f.Tag != "" {
		docs = FilterByTag(docs, f.Tag)
	}

	log.Debug("Список документов получен", zap.Int("count", len(docs)))
	return docs, nil
}

// GetBySlug возвращает опубликованный документ и запускает инкремент счётчика
// просмотров в фоне. Ответ не ждёт инкремента: view_count в нём — значение до
// инкремента, а ошибка инкремента только логируется. Два одновременных
// просмотра дают два инкремента — так и задумано, каждый был настоящим.
func (s *documentService) GetBySlug(ctx context.Context, slug string) (*models.DocumentWithRelations, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение документа по slug", zap.String("slug", slug))

	row, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Документ не найден", zap.String("slug", slug))
		return nil, err
	}
	if err != nil {
		log.Error("Ошибка получения документа (repo)", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	doc := FlattenDocument(*row)

	go func(id uuid.UUID) {
		ictx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.IncrementViews(ictx, id); err != nil {
			// best-effort: счётчик просмотров информационный
			logger.WithCtx(ictx).Warn("Не удалось увеличить счётчик просмотров",
				zap.String("doc_id", id.String()), zap.Error(err))
		}
	}(doc.Document.ID)

	log.Debug("Документ получен", zap.String("slug", slug))
	return &doc, nil
}

// GetByID загружает документ для редактирования: любой статус, без инкремента
// счётчика просмотров — открытие в редакторе не считается просмотром.
func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentWithRelations, error) {
	log := logger.WithCtx(ctx)

	row, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Документ не найден", zap.String("id", id.String()))
		return nil, err
	}
	if err != nil {
		log.Error("Ошибка получения документа (repo)", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	doc := FlattenDocument(*row)
	return &doc, nil
}

func (s *documentService) Search(ctx context.Context, query string) ([]models.DocumentWithRelations, error) {
	return s.List(ctx, models.DocumentFilter{
		Status: models.StatusPublished,
		Search: query,
	})
}

func (s *documentService) Create(ctx context.Context, authorID *uuid.UUID, req models.CreateDocumentRequest) (*models.Document, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание документа",
		zap.String("title", strings.TrimSpace(req.Title)),
		zap.String("slug", req.Slug),
		zap.Int("tags_count", len(req.TagIDs)),
	)

	d, err := documentFromRequest(req)
	if err != nil {
		log.Warn("Валидация не пройдена", zap.Error(err))
		return nil, err
	}
	d.AuthorID = authorID

	exists, err := s.repo.SlugExists(ctx, d.Slug)
	if err != nil {
		log.Error("Ошибка проверки slug (repo)", zap.Error(err))
		return nil, err
	}
	if exists {
		err := errors.New("документ с таким slug уже существует")
		log.Warn("Валидация не пройдена: slug занят", zap.String("slug", d.Slug))
		return nil, err
	}

	created, err := s.repo.Create(ctx, d, req.TagIDs)
	if err != nil {
		log.Error("Ошибка создания документа (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Документ создан",
		zap.String("id", created.ID.String()),
		zap.String("status", created.Status),
	)
	return created, nil
}

func (s *documentService) Update(ctx context.Context, id uuid.UUID, req models.CreateDocumentRequest) error {
	log := logger.WithCtx(ctx)
	log.Info("Обновление документа", zap.String("id", id.String()))

	d, err := documentFromRequest(req)
	if err != nil {
		log.Warn("Валидация не пройдена", zap.Error(err))
		return err
	}
	d.ID = id

	if err := s.repo.Update(ctx, d, req.TagIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Документ для обновления не найден", zap.String("id", id.String()))
		} else {
			log.Error("Ошибка обновления документа (repo)", zap.Error(err))
		}
		return err
	}

	log.Info("Документ обновлён", zap.String("id", id.String()))
	return nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление документа", zap.String("id", id.String()))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления документа (repo)", zap.Error(err))
		return err
	}

	log.Info("Документ удалён", zap.String("id", id.String()))
	return nil
}

func (s *documentService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	log := logger.WithCtx(ctx)
	log.Info("Изменение статуса документа", zap.String("id", id.String()), zap.String("status", status))

	if !validStatus(status) {
		err := errors.New("недопустимый статус документа")
		log.Warn("Валидация не пройдена: статус", zap.String("status", status))
		return err
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		log.Error("Ошибка изменения статуса (repo)", zap.Error(err))
		return err
	}

	log.Info("Статус документа изменён", zap.String("id", id.String()), zap.String("status", status))
	return nil
}

func documentFromRequest(req models.CreateDocumentRequest) (*models.Document, error) {
	title := strings.TrimSpace(req.Title)
	if l := utf8.RuneCountInString(title); l < 3 || l > 255 {
		return nil, errors.New("длина заголовка должна быть от 3 до 255 символов")
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, errors.New("slug обязателен")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("контент не может быть пустым")
	}
	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !validStatus(status) {
		return nil, errors.New("недопустимый статус документа")
	}

	return &models.Document{
		Title:           title,
		Slug:            slug,
		Description:     strPtr(req.Description),
		Content:         req.Content,
		CategoryID:      req.CategoryID,
		Status:          status,
		Featured:        req.Featured,
		MetaTitle:       strPtr(req.MetaTitle),
		MetaDescription: strPtr(req.MetaDescription),
	}, nil
}

func validStatus(status string) bool {
	switch status {
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		return true
	}
	return false
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
