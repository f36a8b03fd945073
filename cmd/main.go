package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
	"github.com/sheetbridge/busybusy-export/internal/handlers"
	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/middleware"
	"github.com/sheetbridge/busybusy-export/internal/observability"
	"github.com/sheetbridge/busybusy-export/internal/server"
	"github.com/sheetbridge/busybusy-export/internal/services"
	"github.com/sheetbridge/busybusy-export/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: utils.GetEnv("OTEL_SERVICE_NAME", "busybusy-export", log),
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOTel(ctx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Cache
	log.Info("Setting up cache store from main...")
	var store cache.Store
	if redisAddr := utils.GetEnv("REDIS_ADDR", "", log); redisAddr != "" {
		redisStore, err := cache.NewRedisStore(log, cache.RedisConfig{
			Addr:     redisAddr,
			Password: utils.GetEnv("REDIS_PASSWORD", "", log),
			DB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
		})
		if err != nil {
			log.Error("Could not init RedisStore", "error", err)
			os.Exit(1)
		}
		store = redisStore
	} else {
		log.Warn("REDIS_ADDR not set, caching in process memory")
		store = cache.NewMemoryStore()
	}

	// Upstream client
	api, err := busybusy.New(log, busybusy.ConfigFromEnv())
	if err != nil {
		log.Error("Could not init BusyBusy client", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	cfg := services.ConfigFromEnv(log)
	projectService := services.NewProjectService(log, api, store, cfg)
	budgetService := services.NewBudgetService(log, api, store, cfg)
	employeeService := services.NewEmployeeService(log, api, store, cfg)
	costCodeService := services.NewCostCodeService(log, api, store, cfg)
	equipmentService := services.NewEquipmentService(log, api, store, cfg)

	// Handlers
	log.Info("Setting up Handlers from main...")
	projectHandler := handlers.NewProjectHandler(log, projectService)
	budgetHandler := handlers.NewBudgetHandler(log, budgetService)
	employeeHandler := handlers.NewEmployeeHandler(log, employeeService)
	costCodeHandler := handlers.NewCostCodeHandler(log, costCodeService)
	equipmentHandler := handlers.NewEquipmentHandler(log, equipmentService)
	cacheHandler := handlers.NewCacheHandler(log, store)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:   authMiddleware,
		ProjectHandler:   projectHandler,
		BudgetHandler:    budgetHandler,
		EmployeeHandler:  employeeHandler,
		CostCodeHandler:  costCodeHandler,
		EquipmentHandler: equipmentHandler,
		CacheHandler:     cacheHandler,
		AllowedOrigins:   utils.GetEnv("ALLOWED_ORIGINS", "", log),
		ServiceName:      utils.GetEnv("OTEL_SERVICE_NAME", "busybusy-export", log),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
