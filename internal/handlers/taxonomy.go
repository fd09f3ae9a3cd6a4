package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"docshub/internal/logger"
	"docshub/internal/models"
	"docshub/internal/repository"
	"docshub/internal/services"
	helpers "docshub/internal/utils/helpers"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type TaxonomyHandler struct{ svc *services.TaxonomyService }

func NewTaxonomyHandler(s *services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: s}
}

// ListCategories
// @Summary      Список категорий
// @Description  Отсортирован по sort_order
// @Tags         taxonomy
// @Produce      json
// @Success      200 {object} map[string][]models.Category
// @Failure      500 {object} map[string]string
// @Router       /api/categories [get]
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	list, err := h.svc.ListCategories(r.Context())
	if err != nil {
		log.Error("taxonomy: ошибка получения категорий", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, list)
}

// ListTags
// @Summary      Список тегов
// @Tags         taxonomy
// @Produce      json
// @Success      200 {object} map[string][]models.Tag
// @Failure      500 {object} map[string]string
// @Router       /api/tags [get]
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	list, err := h.svc.ListTags(r.Context())
	if err != nil {
		log.Error("taxonomy: ошибка получения тегов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, list)
}

// CreateCategory
// @Summary      Создать категорию
// @Description  Доступно только администратору
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Param        body  body  models.CategoryRequest  true  "Данные категории"
// @Success      201   {object} map[string]string
// @Failure      400   {object} map[string]string
// @Security     BearerAuth
// @Router       /api/admin/categories [post]
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("taxonomy: невалидный JSON при создании категории", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	id, err := h.svc.CreateCategory(r.Context(), req)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info("taxonomy: категория создана", zap.String("id", id.String()), zap.String("slug", req.Slug))
	helpers.JSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// UpdateCategory
// @Summary      Обновить категорию
// @Tags         taxonomy
// @Accept       json
// @Param        id    path  string                  true  "ID категории"
// @Param        body  body  models.CategoryRequest  true  "Обновлённые данные"
// @Success      204   {string} string "No Content"
// @Failure      400   {object} map[string]string
// @Failure      404   {object} map[string]string
// @Security     BearerAuth
// @Router       /api/admin/categories/{id} [patch]
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.UpdateCategory(r.Context(), id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, "Категория не найдена")
			return
		}
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory
// @Summary      Удалить категорию
// @Tags         taxonomy
// @Param        id  path  string  true  "ID категории"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /api/admin/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, "Категория не найдена")
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTag
// @Summary      Создать тег
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Param        body  body  models.TagRequest  true  "Данные тега"
// @Success      201   {object} map[string]string
// @Failure      400   {object} map[string]string
// @Security     BearerAuth
// @Router       /api/admin/tags [post]
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("taxonomy: невалидный JSON при создании тега", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	id, err := h.svc.CreateTag(r.Context(), req)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info("taxonomy: тег создан", zap.String("id", id.String()), zap.String("slug", req.Slug))
	helpers.JSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// UpdateTag
// @Summary      Обновить тег
// @Tags         taxonomy
// @Accept       json
// @Param        id    path  string             true  "ID тега"
// @Param        body  body  models.TagRequest  true  "Обновлённые данные"
// @Success      204   {string} string "No Content"
// @Failure      400   {object} map[string]string
// @Failure      404   {object} map[string]string
// @Security     BearerAuth
// @Router       /api/admin/tags/{id} [patch]
func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	var req models.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.svc.UpdateTag(r.Context(), id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, "Тег не найден")
			return
		}
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTag
// @Summary      Удалить тег
// @Tags         taxonomy
// @Param        id  path  string  true  "ID тега"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /api/admin/tags/{id} [delete]
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	if err := h.svc.DeleteTag(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, "Тег не найден")
			return
		}
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
