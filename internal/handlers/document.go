package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"docshub/internal/logger"
	"docshub/internal/models"
	"docshub/internal/repository"
	"docshub/internal/reqctx"
	"docshub/internal/services"
	helpers "docshub/internal/utils/helpers"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	svc          services.DocumentService
	renderer     *services.Renderer
	watchRefresh time.Duration
}

func NewDocumentHandler(svc services.DocumentService, renderer *services.Renderer, watchRefresh time.Duration) *DocumentHandler {
	return &DocumentHandler{svc: svc, renderer: renderer, watchRefresh: watchRefresh}
}

// List
// @Summary      Список опубликованных документов
// @Description  Фильтры: категория, тег, поиск по подстроке, лимит. Виден только опубликованный контент.
// @Tags         documents
// @Produce      json
// @Param        category  query  string  false  "ID категории"
// @Param        tag       query  string  false  "Slug тега"
// @Param        search    query  string  false  "Поиск по title/description/content"
// @Param        limit     query  int     false  "Максимум строк"
// @Success      200  {object}  map[string][]models.DocumentWithRelations
// @Failure      500  {object}  map[string]string
// @Router       /api/documents [get]
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	f := filterFromQuery(r)
	// публичная выборка всегда ограничена опубликованными
	f.Status = models.StatusPublished

	docs, err := h.svc.List(r.Context(), f)
	if err != nil {
		log.Error("documents: ошибка получения списка", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, docs)
}

// ListAdmin
// @Summary      Список документов для админки (любой статус)
// @Tags         documents
// @Produce      json
// @Param        status    query  string  false  "draft|published|archived"
// @Param        category  query  string  false  "ID категории"
// @Param        tag       query  string  false  "Slug тега"
// @Param        search    query  string  false  "Поиск"
// @Param        limit     query  int     false  "Максимум строк"
// @Success      200  {object}  map[string][]models.DocumentWithRelations
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/documents [get]
func (h *DocumentHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	f := filterFromQuery(r)
	f.Status = r.URL.Query().Get("status")

	docs, err := h.svc.List(r.Context(), f)
	if err != nil {
		log.Error("documents: ошибка получения списка (админка)", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, docs)
}

// GetBySlug
// @Summary      Документ по slug
// @Description  Возвращает документ с отношениями, оглавление и отрендеренный HTML. Инкремент счётчика просмотров выполняется в фоне.
// @Tags         documents
// @Produce      json
// @Param        slug  path  string  true  "Slug документа"
// @Success      200  {object}  models.DocumentPage
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/documents/{slug} [get]
func (h *DocumentHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	slug := mux.Vars(r)["slug"]

	doc, err := h.svc.GetBySlug(r.Context(), slug)
	if errors.Is(err, repository.ErrNotFound) {
		helpers.Error(w, http.StatusNotFound, "Документ не найден")
		return
	}
	if err != nil {
		log.Error("documents: ошибка получения по slug", zap.String("slug", slug), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	rendered, err := h.renderer.Render(doc.Content)
	if err != nil {
		log.Error("documents: ошибка рендеринга", zap.String("slug", slug), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, models.DocumentPage{
		Document: *doc,
		TOC:      services.ExtractTOC(doc.Content),
		HTML:     rendered,
	})
}

// GetByID
// @Summary      Документ по id для редактора (любой статус)
// @Description  Черновики и архив тоже доступны. Счётчик просмотров не меняется.
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "ID документа"
// @Success      200  {object}  models.DocumentWithRelations
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/documents/{id} [get]
func (h *DocumentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	doc, err := h.svc.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		helpers.Error(w, http.StatusNotFound, "Документ не найден")
		return
	}
	if err != nil {
		log.Error("documents: ошибка получения по id", zap.String("id", id.String()), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, doc)
}

// Watch
// @Summary      Живая лента документов (SSE)
// @Description  Отдаёт снимок списка при подключении и далее при каждом фоновом обновлении.
// @Tags         documents
// @Produce      text/event-stream
// @Param        category  query  string  false  "ID категории"
// @Param        tag       query  string  false  "Slug тега"
// @Param        search    query  string  false  "Поиск"
// @Param        limit     query  int     false  "Максимум строк"
// @Success      200  {string}  string  "поток событий"
// @Router       /api/documents/watch [get]
func (h *DocumentHandler) Watch(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		helpers.Error(w, http.StatusInternalServerError, "стриминг не поддерживается")
		return
	}

	f := filterFromQuery(r)
	f.Status = models.StatusPublished

	feed := services.NewDocumentFeed(h.svc)
	defer feed.Close()
	states := feed.Subscribe()
	feed.SetFilters(r.Context(), f)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.watchRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case st, open := <-states:
			if !open {
				return
			}
			if st.Loading {
				continue
			}
			payload, err := json.Marshal(st)
			if err != nil {
				log.Error("documents: ошибка сериализации состояния ленты", zap.Error(err))
				continue
			}
			if _, err := w.Write(append(append([]byte("data: "), payload...), '\n', '\n')); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			feed.Refetch(r.Context())
		}
	}
}

// Create
// @Summary      Создать документ
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  models.CreateDocumentRequest  true  "Данные документа"
// @Success      201  {object}  models.Document
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/documents [post]
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("documents: невалидный JSON при создании", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	// автором становится пользователь из токена
	var authorID *uuid.UUID
	if uid, ok := reqctx.GetUserID(r.Context()); ok {
		authorID = &uid
	}

	doc, err := h.svc.Create(r.Context(), authorID, req)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	helpers.JSON(w, http.StatusCreated, doc)
}

// Update
// @Summary      Обновить документ
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID документа"
// @Param        body  body  models.CreateDocumentRequest  true  "Обновлённые данные"
// @Success      204  {string}  string  "No Content"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/documents/{id} [patch]
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("documents: невалидный JSON при обновлении", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.Update(r.Context(), id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, "Документ не найден")
			return
		}
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete
// @Summary      Удалить документ
// @Tags         documents
// @Param        id  path  string  true  "ID документа"
// @Success      204  {string}  string  "No Content"
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/documents/{id} [delete]
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, "Документ не найден")
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetStatus
// @Summary      Изменить статус документа
// @Tags         documents
// @Accept       json
// @Param        id    path  string             true  "ID документа"
// @Param        body  body  map[string]string  true  "{\"status\":\"published\"}"
// @Success      204  {string}  string  "No Content"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/documents/{id}/status [patch]
func (h *DocumentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.SetStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, "Документ не найден")
			return
		}
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) models.DocumentFilter {
	q := r.URL.Query()
	f := models.DocumentFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
	}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.Limit = n
		}
	}
	return f
}
