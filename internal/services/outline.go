package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"docshub/internal/models"
)

// ATX-заголовок в начале строки: 1–6 маркеров, пробел, текст.
var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// ExtractTOC строит оглавление документа: один проход по строкам, уровень —
// число маркеров, id — heading-{порядковый номер}. Номер не зависит от текста
// заголовка, поэтому одинаковые заголовки получают разные id. Чистая функция:
// на одном и том же контенте результат всегда идентичен.
//
// Маркеры внутри fenced-блоков кода не отфильтровываются — известный риск
// ложного срабатывания.
func ExtractTOC(content string) []models.TOCItem {
	items := make([]models.TOCItem, 0)
	for _, line := range strings.Split(content, "\n") {
		m := headingRe.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
		if m == nil {
			continue
		}
		items = append(items, models.TOCItem{
			ID:    fmt.Sprintf("heading-%d", len(items)),
			Title: strings.TrimSpace(m[2]),
			Level: len(m[1]),
		})
	}
	return items
}

// VisibilityEvent — событие источника видимости: заголовок с данным id
// пересёк границу области просмотра.
type VisibilityEvent struct {
	ID      string
	Visible bool
}

// SectionTracker отслеживает активный пункт оглавления. Состояния:
// «нет активного» (пустая строка) и «активен heading id». Каждое событие
// видимости делает свой заголовок активным; при пачке событий за один кадр
// побеждает последнее обработанное — иного порядка и не требуется.
type SectionTracker struct {
	mu     sync.Mutex
	active string
}

func NewSectionTracker() *SectionTracker { return &SectionTracker{} }

func (t *SectionTracker) Observe(e VisibilityEvent) {
	if !e.Visible {
		return
	}
	t.mu.Lock()
	t.active = e.ID
	t.mu.Unlock()
}

// Active возвращает id активного заголовка, пустая строка — активного нет.
func (t *SectionTracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *SectionTracker) Reset() {
	t.mu.Lock()
	t.active = ""
	t.mu.Unlock()
}

// HeadingBounds — закешированные границы отрендеренного заголовка
// в координатах документа.
type HeadingBounds struct {
	ID     string
	Top    float64
	Bottom float64
}

// BoundsPoller — замена нативного intersection-наблюдателя для сред, где его
// нет: по текущей позиции прокрутки и закешированным границам элементов
// генерирует события видимости. Частоту опроса ограничивает вызывающая
// сторона (таймер кадра).
type BoundsPoller struct {
	tracker *SectionTracker
	bounds  []HeadingBounds
	margin  float64
}

// NewBoundsPoller: margin сжимает область просмотра сверху и снизу —
// аналог rootMargin '-80px 0px -80px 0px' у нативного наблюдателя.
func NewBoundsPoller(tracker *SectionTracker, bounds []HeadingBounds, margin float64) *BoundsPoller {
	return &BoundsPoller{tracker: tracker, bounds: bounds, margin: margin}
}

// Poll прогоняет все заголовки через трекер: видимые — в порядке следования,
// так что активным станет последний видимый.
func (p *BoundsPoller) Poll(scrollTop, viewportHeight float64) {
	top := scrollTop + p.margin
	bottom := scrollTop + viewportHeight - p.margin
	for _, b := range p.bounds {
		if b.Bottom >= top && b.Top <= bottom {
			p.tracker.Observe(VisibilityEvent{ID: b.ID, Visible: true})
		}
	}
}
