package app

import (
	"context"
	"strconv"
	"time"

	"docshub/internal/config"
	"docshub/internal/db"
	"docshub/internal/handlers"
	"docshub/internal/logger"
	"docshub/internal/models"
	"docshub/internal/repository"
	"docshub/internal/routes"
	"docshub/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	docRepo := repository.NewDocumentRepo(conn)
	taxonomyRepo := repository.NewTaxonomyRepo(conn)
	settingsRepo := repository.NewSettingsRepo(conn)

	// Сервисы
	docService := services.NewDocumentService(docRepo)
	taxonomySvc := services.NewTaxonomyService(taxonomyRepo)
	settingsSvc := services.NewSettingsService(settingsRepo)
	renderer := services.NewRenderer()

	// Настройки сайта читаются один раз на старте и передаются явно
	siteSettings := loadSiteSettings(settingsSvc)

	watchRefresh := parseWatchRefresh(cfg.WatchRefreshSec)

	// Хендлеры
	docHandler := handlers.NewDocumentHandler(docService, renderer, watchRefresh)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomySvc)
	searchHandler := handlers.NewSearchHandler(docService)
	settingsHandler := handlers.NewSettingsHandler(settingsSvc, siteSettings)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, docHandler, taxonomyHandler, searchHandler, settingsHandler)

	return router, nil
}

func loadSiteSettings(svc *services.SettingsService) *models.AppSettings {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := svc.Get(ctx)
	if err != nil {
		// не фатально: хендлер перечитает при первом запросе
		logger.Log.Warn("Не удалось загрузить настройки сайта на старте", zap.Error(err))
		return nil
	}
	logger.Log.Info("Настройки сайта загружены", zap.String("site_name", s.SiteName))
	return s
}

func parseWatchRefresh(raw string) time.Duration {
	sec, err := strconv.Atoi(raw)
	if err != nil || sec <= 0 {
		sec = 30
	}
	return time.Duration(sec) * time.Second
}
