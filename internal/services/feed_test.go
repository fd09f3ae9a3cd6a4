package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"docshub/internal/models"
)

// gatedLister отвечает на List документом, чей заголовок равен f.Search,
// и умеет задерживать ответы по ключу — для воспроизведения гонки ответов.
type gatedLister struct {
	mu    sync.Mutex
	calls int
	gates map[string]chan struct{}
	err   error
}

func newGatedLister() *gatedLister {
	return &gatedLister{gates: make(map[string]chan struct{})}
}

func (l *gatedLister) gate(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan struct{})
	l.gates[key] = ch
	return ch
}

func (l *gatedLister) List(_ context.Context, f models.DocumentFilter) ([]models.DocumentWithRelations, error) {
	l.mu.Lock()
	l.calls++
	gate := l.gates[f.Search]
	err := l.err
	l.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	doc := models.DocumentWithRelations{Tags: []models.Tag{}}
	doc.Title = f.Search
	return []models.DocumentWithRelations{doc}, nil
}

func (l *gatedLister) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// ждёт первый снимок не в состоянии загрузки
func awaitSettled(t *testing.T, states <-chan FeedState) FeedState {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-states:
			if !st.Loading {
				return st
			}
		case <-deadline:
			t.Fatal("не дождались завершения выборки")
		}
	}
}

func TestDocumentFeed_EqualFiltersDoNotRefetch(t *testing.T) {
	lister := newGatedLister()
	feed := NewDocumentFeed(lister)
	defer feed.Close()

	states := feed.Subscribe()
	ctx := context.Background()

	feed.SetFilters(ctx, models.DocumentFilter{Status: models.StatusPublished, Search: "a"})
	awaitSettled(t, states)

	// структурно равный набор — выборка не перезапускается
	feed.SetFilters(ctx, models.DocumentFilter{Status: models.StatusPublished, Search: "a"})
	time.Sleep(50 * time.Millisecond)

	if n := lister.callCount(); n != 1 {
		t.Fatalf("равные фильтры не должны запускать повторную выборку: %d вызовов", n)
	}

	// изменившийся набор — запускается
	feed.SetFilters(ctx, models.DocumentFilter{Status: models.StatusPublished, Search: "b"})
	awaitSettled(t, states)

	if n := lister.callCount(); n != 2 {
		t.Fatalf("новый набор фильтров должен запустить выборку: %d вызовов", n)
	}
}

func TestDocumentFeed_StaleResponseDiscarded(t *testing.T) {
	lister := newGatedLister()
	slow := lister.gate("медленный")

	feed := NewDocumentFeed(lister)
	defer feed.Close()

	states := feed.Subscribe()
	ctx := context.Background()

	// первая выборка зависает в полёте, вторая обгоняет её
	feed.SetFilters(ctx, models.DocumentFilter{Search: "медленный"})
	feed.SetFilters(ctx, models.DocumentFilter{Search: "быстрый"})

	st := awaitSettled(t, states)
	if len(st.Documents) != 1 || st.Documents[0].Title != "быстрый" {
		t.Fatalf("ожидался результат второй выборки: %+v", st.Documents)
	}

	// отпускаем устаревший ответ — состояние он трогать не должен
	close(slow)
	time.Sleep(50 * time.Millisecond)

	final := feed.Snapshot()
	if final.Loading {
		t.Fatal("устаревший ответ не должен возвращать ленту в загрузку")
	}
	if len(final.Documents) != 1 || final.Documents[0].Title != "быстрый" {
		t.Fatalf("устаревший ответ затёр более новый: %+v", final.Documents)
	}
}

func TestDocumentFeed_ErrorState(t *testing.T) {
	lister := newGatedLister()
	lister.err = errors.New("обрыв соединения")

	feed := NewDocumentFeed(lister)
	defer feed.Close()

	states := feed.Subscribe()
	feed.SetFilters(context.Background(), models.DocumentFilter{Search: "x"})

	st := awaitSettled(t, states)
	if st.Error != "обрыв соединения" {
		t.Fatalf("ошибка выборки должна попасть в состояние: %+v", st)
	}
	if st.Documents == nil || len(st.Documents) != 0 {
		t.Fatalf("при ошибке список должен быть пустым срезом: %+v", st.Documents)
	}

	// Refetch после ошибки перезапускает выборку с теми же фильтрами
	lister.mu.Lock()
	lister.err = nil
	lister.mu.Unlock()

	feed.Refetch(context.Background())
	st = awaitSettled(t, states)
	if st.Error != "" || len(st.Documents) != 1 {
		t.Fatalf("после Refetch ожидался успешный результат: %+v", st)
	}
}
