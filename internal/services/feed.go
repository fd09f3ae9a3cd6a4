package services

import (
	"context"
	"sync"

	"docshub/internal/logger"
	"docshub/internal/models"

	"go.uber.org/zap"
)

// DocumentLister — то, что умеет отдать отфильтрованный список документов.
// Реализуется DocumentService, в тестах — заглушкой.
type DocumentLister interface {
	List(ctx context.Context, f models.DocumentFilter) ([]models.DocumentWithRelations, error)
}

// FeedState — снимок состояния ленты: список, признак загрузки, ошибка.
type FeedState struct {
	Documents []models.DocumentWithRelations `json:"documents"`
	Loading   bool                           `json:"loading"`
	Error     string                         `json:"error,omitempty"`
}

// DocumentFeed — реактивная коллекция документов для одного представления.
// SetFilters перезапускает выборку только если набор фильтров реально
// изменился (структурное сравнение, не по указателю). Каждая выборка несёт
// номер поколения: ответ, чьё поколение уже не текущее, отбрасывает сам себя
// и не трогает состояние — поздний ответ не может затереть более новый.
type DocumentFeed struct {
	svc DocumentLister

	mu      sync.Mutex
	filters models.DocumentFilter
	started bool
	gen     uint64
	state   FeedState
	subs    []chan FeedState
	closed  bool
}

func NewDocumentFeed(svc DocumentLister) *DocumentFeed {
	return &DocumentFeed{svc: svc}
}

// SetFilters задаёт набор фильтров. Структурно равный набор не приводит
// к повторной выборке.
func (f *DocumentFeed) SetFilters(ctx context.Context, filters models.DocumentFilter) {
	f.mu.Lock()
	if f.started && filters == f.filters {
		f.mu.Unlock()
		return
	}
	f.filters = filters
	f.started = true
	gen := f.beginFetchLocked()
	f.mu.Unlock()

	go f.fetch(ctx, gen, filters)
}

// Refetch перезапускает выборку с текущими фильтрами (кнопка «повторить»
// после ошибки, периодическое обновление).
func (f *DocumentFeed) Refetch(ctx context.Context) {
	f.mu.Lock()
	if !f.started {
		f.mu.Unlock()
		return
	}
	filters := f.filters
	gen := f.beginFetchLocked()
	f.mu.Unlock()

	go f.fetch(ctx, gen, filters)
}

// beginFetchLocked открывает новое поколение и переводит состояние в loading.
func (f *DocumentFeed) beginFetchLocked() uint64 {
	f.gen++
	f.state.Loading = true
	f.state.Error = ""
	f.notifyLocked()
	return f.gen
}

func (f *DocumentFeed) fetch(ctx context.Context, gen uint64, filters models.DocumentFilter) {
	docs, err := f.svc.List(ctx, filters)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		logger.WithCtx(ctx).Debug("Устаревший ответ выборки отброшен",
			zap.Uint64("gen", gen), zap.Uint64("current", f.gen))
		return
	}

	if err != nil {
		f.state = FeedState{
			Documents: []models.DocumentWithRelations{},
			Loading:   false,
			Error:     err.Error(),
		}
	} else {
		if docs == nil {
			docs = []models.DocumentWithRelations{}
		}
		f.state = FeedState{Documents: docs, Loading: false}
	}
	f.notifyLocked()
}

// Snapshot возвращает текущее состояние ленты.
func (f *DocumentFeed) Snapshot() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe возвращает канал снимков состояния. Канал буферизован;
// при переполнении свежий снимок вытесняет непрочитанный — подписчику
// важен последний, а не каждый.
func (f *DocumentFeed) Subscribe() <-chan FeedState {
	ch := make(chan FeedState, 8)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch
}

// Close закрывает каналы подписчиков. Лента одноразовая: после Close
// новые выборки состояния никому не доставляются.
func (f *DocumentFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.gen++ // всё, что ещё в полёте, станет устаревшим
	for _, ch := range f.subs {
		close(ch)
	}
	f.subs = nil
}

func (f *DocumentFeed) notifyLocked() {
	if f.closed {
		return
	}
	for _, ch := range f.subs {
		select {
		case ch <- f.state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f.state:
			default:
			}
		}
	}
}
