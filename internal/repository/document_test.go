package repository

import (
	"strings"
	"testing"

	"docshub/internal/models"

	"github.com/google/uuid"
)

func TestBuildListQuery_Empty(t *testing.T) {
	sql, args, err := buildListQuery(models.DocumentFilter{})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	// единственный WHERE — внутри подзапроса тегов
	if strings.Count(sql, "WHERE") != 1 {
		t.Fatalf("пустой фильтр не должен давать внешний WHERE:\n%s", sql)
	}
	if !strings.Contains(sql, "ORDER BY d.created_at DESC") {
		t.Fatalf("нет сортировки по дате создания:\n%s", sql)
	}
	if strings.Contains(sql, "LIMIT") {
		t.Fatalf("без лимита не должно быть LIMIT:\n%s", sql)
	}
	if len(args) != 0 {
		t.Fatalf("лишние аргументы: %v", args)
	}
}

func TestBuildListQuery_SearchSpansThreeColumns(t *testing.T) {
	sql, args, err := buildListQuery(models.DocumentFilter{Search: "install"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// одна подстрока ищется по трём полям через один плейсхолдер
	want := "(d.title ILIKE $1 OR d.description ILIKE $1 OR d.content ILIKE $1)"
	if !strings.Contains(sql, want) {
		t.Fatalf("неверное условие поиска:\n%s", sql)
	}
	if len(args) != 1 || args[0] != "%install%" {
		t.Fatalf("ожидался один аргумент %%install%%: %v", args)
	}
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	cid := uuid.New()
	sql, args, err := buildListQuery(models.DocumentFilter{
		Status:   models.StatusPublished,
		Category: cid.String(),
		Search:   "api",
		Limit:    20,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	for _, want := range []string{
		"d.status = $1",
		"d.category_id = $2",
		"ILIKE $3",
		"LIMIT $4",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("в SQL нет %q:\n%s", want, sql)
		}
	}
	if len(args) != 4 {
		t.Fatalf("ожидалось 4 аргумента: %v", args)
	}
	if args[0] != models.StatusPublished || args[1] != cid || args[2] != "%api%" || args[3] != 20 {
		t.Fatalf("аргументы в неверном порядке: %v", args)
	}
}

func TestBuildListQuery_TagNeverInSQL(t *testing.T) {
	// фильтр по тегу применяется сервисом после уплощения, в SQL его нет
	sql, args, err := buildListQuery(models.DocumentFilter{Tag: "go"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if strings.Count(sql, "WHERE") != 1 {
		t.Fatalf("тег не должен попадать во внешний WHERE:\n%s", sql)
	}
	if len(args) != 0 {
		t.Fatalf("тег не должен давать аргументов: %v", args)
	}
}

func TestBuildListQuery_TagsAggregateOrderedByInsertion(t *testing.T) {
	sql, _, err := buildListQuery(models.DocumentFilter{})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	// без ORDER BY внутри агрегата порядок тегов зависел бы от плана запроса
	if !strings.Contains(sql, "jsonb_build_object('tag', to_jsonb(t)) ORDER BY dt.created_at") {
		t.Fatalf("агрегат тегов должен сортироваться по времени вставки junction-строки:\n%s", sql)
	}
}

func TestBuildListQuery_InvalidCategory(t *testing.T) {
	if _, _, err := buildListQuery(models.DocumentFilter{Category: "not-a-uuid"}); err == nil {
		t.Fatal("невалидный id категории должен давать ошибку, не пустую выборку")
	}
}
