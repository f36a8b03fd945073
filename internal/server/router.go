package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sheetbridge/busybusy-export/internal/handlers"
	"github.com/sheetbridge/busybusy-export/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware   *middleware.AuthMiddleware
	ProjectHandler   *handlers.ProjectHandler
	BudgetHandler    *handlers.BudgetHandler
	EmployeeHandler  *handlers.EmployeeHandler
	CostCodeHandler  *handlers.CostCodeHandler
	EquipmentHandler *handlers.EquipmentHandler
	CacheHandler     *handlers.CacheHandler
	AllowedOrigins   string
	ServiceName      string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.AllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "key-authorization"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAPIKey())
	// Exports
	api.GET("/projects", cfg.ProjectHandler.Export)
	api.GET("/budgets", cfg.BudgetHandler.Export)
	api.GET("/employees", cfg.EmployeeHandler.Export)
	api.GET("/cost-codes", cfg.CostCodeHandler.Export)
	api.GET("/equipment", cfg.EquipmentHandler.Export)
	// Cache
	api.DELETE("/cache", cfg.CacheHandler.Invalidate)

	return router
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"http://localhost:3000"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
