package handlers

import (
	"net/http"
	"strings"
	"time"

	"docshub/internal/logger"
	"docshub/internal/services"
	helpers "docshub/internal/utils/helpers"

	"go.uber.org/zap"
)

type SearchHandler struct {
	documentService services.DocumentService
}

func NewSearchHandler(documentSvc services.DocumentService) *SearchHandler {
	return &SearchHandler{documentService: documentSvc}
}

// GlobalSearch godoc
// @Summary Глобальный поиск по документам
// @Tags search
// @Produce json
// @Param query query string true "Поисковый запрос"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {string} string "Пустой запрос"
// @Router /api/search [get]
func (h *SearchHandler) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		log.Warn("search: пустой запрос")
		helpers.Error(w, http.StatusBadRequest, "Пустой запрос")
		return
	}

	start := time.Now()
	log.Info("search: старт", zap.String("query", query))

	results, err := h.documentService.Search(r.Context(), query)
	if err != nil {
		log.Error("search: ошибка поиска по документам", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info("search: готово",
		zap.String("query", query),
		zap.Int("documents_count", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)

	helpers.JSON(w, http.StatusOK, map[string]interface{}{
		"documents": results,
	})
}
