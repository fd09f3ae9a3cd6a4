package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"docshub/internal/models"
	"docshub/internal/repository"

	"github.com/google/uuid"
)

type mockDocumentRepo struct {
	mu         sync.Mutex
	rows       []models.DocumentRow
	listErr    error
	listCalls  int
	increments chan uuid.UUID
}

func newMockDocumentRepo(rows ...models.DocumentRow) *mockDocumentRepo {
	return &mockDocumentRepo{rows: rows, increments: make(chan uuid.UUID, 16)}
}

func (m *mockDocumentRepo) List(_ context.Context, f models.DocumentFilter) ([]models.DocumentRow, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	// та же семантика, что у SQL: статус и поиск применяются в выборке,
	// фильтр по тегу остаётся сервису
	out := make([]models.DocumentRow, 0, len(m.rows))
	for _, row := range m.rows {
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *mockDocumentRepo) GetBySlug(_ context.Context, slug string) (*models.DocumentRow, error) {
	for i := range m.rows {
		if m.rows[i].Slug == slug && m.rows[i].Status == models.StatusPublished {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockDocumentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.DocumentRow, error) {
	for i := range m.rows {
		if m.rows[i].Document.ID == id {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockDocumentRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.increments <- id
	return nil
}

func (m *mockDocumentRepo) Create(_ context.Context, d *models.Document, _ []uuid.UUID) (*models.Document, error) {
	out := *d
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockDocumentRepo) Update(_ context.Context, _ *models.Document, _ []uuid.UUID) error {
	return nil
}

func (m *mockDocumentRepo) Delete(_ context.Context, _ uuid.UUID) error            { return nil }
func (m *mockDocumentRepo) SetStatus(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (m *mockDocumentRepo) SlugExists(_ context.Context, _ string) (bool, error)   { return false, nil }

func docRow(title, slug, status string, tags ...*models.Tag) models.DocumentRow {
	row := models.DocumentRow{}
	row.Document.ID = uuid.New()
	row.Title = title
	row.Document.Slug = slug
	row.Status = status
	row.Content = "# " + title
	for _, t := range tags {
		row.Tags = append(row.Tags, models.TagJoin{Tag: t})
	}
	return row
}

func TestDocumentService_List_FlattensTags(t *testing.T) {
	goTag := &models.Tag{ID: uuid.New(), Name: "Go", Slug: "go"}
	repo := newMockDocumentRepo(
		docRow("С тегами", "s-tegami", models.StatusPublished, goTag),
		// junction-строка без тега (LEFT JOIN дал NULL) — тег отбрасывается
		docRow("Битый тег", "bityj-teg", models.StatusPublished, nil),
		// документ вовсе без тегов
		docRow("Без тегов", "bez-tegov", models.StatusPublished),
	)
	svc := NewDocumentService(repo)

	docs, err := svc.List(context.Background(), models.DocumentFilter{})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("ожидалось 3 документа, получено %d", len(docs))
	}

	if len(docs[0].Tags) != 1 || docs[0].Tags[0].Slug != "go" {
		t.Fatalf("теги первого документа не уплощены: %+v", docs[0].Tags)
	}
	for _, d := range docs[1:] {
		if d.Tags == nil {
			t.Fatalf("документ %q: Tags должен быть пустым срезом, не nil", d.Title)
		}
		if len(d.Tags) != 0 {
			t.Fatalf("документ %q: ожидался пустой список тегов, получено %+v", d.Title, d.Tags)
		}
	}
}

func TestDocumentService_List_TagFilterAfterFlatten(t *testing.T) {
	goTag := &models.Tag{ID: uuid.New(), Name: "Go", Slug: "go"}
	dbTag := &models.Tag{ID: uuid.New(), Name: "БД", Slug: "db"}
	repo := newMockDocumentRepo(
		docRow("Первый", "pervyj", models.StatusPublished, goTag, dbTag),
		docRow("Второй", "vtoroj", models.StatusPublished, dbTag),
		docRow("Третий", "tretij", models.StatusPublished),
	)
	svc := NewDocumentService(repo)

	docs, err := svc.List(context.Background(), models.DocumentFilter{Tag: "go"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Первый" {
		t.Fatalf("фильтр по тегу должен оставить только «Первый»: %+v", docs)
	}

	// регистр имеет значение: GO != go
	docs, err = svc.List(context.Background(), models.DocumentFilter{Tag: "GO"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("совпадение slug тега должно быть точным: %+v", docs)
	}
}

func TestDocumentService_List_TagComposesWithOtherFilters(t *testing.T) {
	goTag := &models.Tag{ID: uuid.New(), Name: "Go", Slug: "go"}
	repo := newMockDocumentRepo(
		docRow("Установка API", "ustanovka-api", models.StatusPublished, goTag),
		// подходит по поиску, но без нужного тега
		docRow("Справочник API", "spravochnik-api", models.StatusPublished),
		// подходит по тегу, но не по поиску
		docRow("Введение", "vvedenie", models.StatusPublished, goTag),
		// подходит по тегу и поиску, но черновик
		docRow("Черновик API", "chernovik-api", models.StatusDraft, goTag),
	)
	svc := NewDocumentService(repo)

	docs, err := svc.List(context.Background(), models.DocumentFilter{
		Status: models.StatusPublished,
		Search: "api",
		Tag:    "go",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Установка API" {
		t.Fatalf("фильтры должны сочетаться через И: %+v", docs)
	}
}

func TestDocumentService_GetBySlug_NotFound(t *testing.T) {
	repo := newMockDocumentRepo(
		docRow("Черновик", "chernovik", models.StatusDraft),
	)
	svc := NewDocumentService(repo)

	// несуществующий slug
	if _, err := svc.GetBySlug(context.Background(), "net-takogo"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено %v", err)
	}

	// черновик публично недоступен — для читателя его нет
	if _, err := svc.GetBySlug(context.Background(), "chernovik"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("черновик не должен отдаваться публично: %v", err)
	}

	select {
	case id := <-repo.increments:
		t.Fatalf("инкремент просмотров для ненайденного документа: %s", id)
	default:
	}
}

func TestDocumentService_GetBySlug_IncrementsViews(t *testing.T) {
	row := docRow("Гайд", "gajd", models.StatusPublished)
	repo := newMockDocumentRepo(row)
	svc := NewDocumentService(repo)

	// каждый просмотр — отдельный инкремент, без дедупликации
	for i := 0; i < 2; i++ {
		doc, err := svc.GetBySlug(context.Background(), "gajd")
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if doc.Document.ID != row.Document.ID {
			t.Fatalf("получен не тот документ: %s", doc.Document.ID)
		}
	}

	for i := 0; i < 2; i++ {
		select {
		case id := <-repo.increments:
			if id != row.Document.ID {
				t.Fatalf("инкремент для чужого документа: %s", id)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("не дождались инкремента №%d", i+1)
		}
	}
}

func TestDocumentService_GetByID_AnyStatusNoIncrement(t *testing.T) {
	row := docRow("Черновик", "chernovik", models.StatusDraft)
	repo := newMockDocumentRepo(row)
	svc := NewDocumentService(repo)

	// редакторская загрузка по id отдаёт и черновик
	doc, err := svc.GetByID(context.Background(), row.Document.ID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if doc.Status != models.StatusDraft {
		t.Fatalf("ожидался черновик, получен %q", doc.Status)
	}

	if _, err := svc.GetByID(context.Background(), uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено %v", err)
	}

	// открытие в редакторе — не просмотр
	time.Sleep(50 * time.Millisecond)
	select {
	case id := <-repo.increments:
		t.Fatalf("загрузка по id не должна увеличивать счётчик: %s", id)
	default:
	}
}

func TestDocumentService_Create_Validation(t *testing.T) {
	repo := newMockDocumentRepo()
	svc := NewDocumentService(repo)
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.CreateDocumentRequest
	}{
		{"короткий заголовок", models.CreateDocumentRequest{Title: "ab", Slug: "ab", Content: "x"}},
		{"пустой slug", models.CreateDocumentRequest{Title: "Заголовок", Content: "x"}},
		{"пустой контент", models.CreateDocumentRequest{Title: "Заголовок", Slug: "zagolovok"}},
		{"неизвестный статус", models.CreateDocumentRequest{Title: "Заголовок", Slug: "zagolovok", Content: "x", Status: "hidden"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, nil, tc.req); err == nil {
			t.Fatalf("%s: ожидалась ошибка валидации", tc.name)
		}
	}

	// валидный запрос без статуса становится черновиком, автор — из аргумента
	authorID := uuid.New()
	created, err := svc.Create(ctx, &authorID, models.CreateDocumentRequest{
		Title:   "Заголовок",
		Slug:    "zagolovok",
		Content: "# Текст",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if created.Status != models.StatusDraft {
		t.Fatalf("статус по умолчанию должен быть draft, получен %q", created.Status)
	}
	if created.AuthorID == nil || *created.AuthorID != authorID {
		t.Fatalf("автор потерян при создании: %v", created.AuthorID)
	}
}
