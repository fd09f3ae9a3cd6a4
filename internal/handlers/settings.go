package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"docshub/internal/logger"
	"docshub/internal/models"
	"docshub/internal/services"
	helpers "docshub/internal/utils/helpers"

	"go.uber.org/zap"
)

// SettingsHandler отдаёт настройки сайта. Снимок загружается один раз на
// старте и передаётся сюда явно; после админского обновления кеш заменяется.
type SettingsHandler struct {
	svc *services.SettingsService

	mu       sync.RWMutex
	settings *models.AppSettings
}

func NewSettingsHandler(svc *services.SettingsService, initial *models.AppSettings) *SettingsHandler {
	return &SettingsHandler{svc: svc, settings: initial}
}

// Get
// @Summary      Настройки сайта
// @Description  Имя сайта, описание, брендинг. Отдаётся из снимка, загруженного на старте.
// @Tags         settings
// @Produce      json
// @Success      200 {object} models.AppSettings
// @Failure      500 {object} map[string]string
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	cached := h.settings
	h.mu.RUnlock()

	if cached != nil {
		helpers.JSON(w, http.StatusOK, cached)
		return
	}

	// снимка нет (старт без строки настроек) — читаем из БД
	s, err := h.svc.Get(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("settings: ошибка чтения", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.mu.Lock()
	h.settings = s
	h.mu.Unlock()

	helpers.JSON(w, http.StatusOK, s)
}

// Update
// @Summary      Обновить настройки сайта
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  models.UpdateSettingsRequest  true  "Частичное обновление"
// @Success      200 {object} models.AppSettings
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /api/admin/settings [patch]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("settings: невалидный JSON", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	updated, err := h.svc.Update(r.Context(), req)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.mu.Lock()
	h.settings = updated
	h.mu.Unlock()

	helpers.JSON(w, http.StatusOK, updated)
}
