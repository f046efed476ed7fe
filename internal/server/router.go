package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/courseforge/backend/internal/handlers"
	"github.com/courseforge/backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	CourseHandler      *handlers.CourseHandler
	TaxonomyHandler    *handlers.TaxonomyHandler
	ImageHandler       *handlers.ImageHandler
	MailingListHandler *handlers.MailingListHandler
	AdminHandler       *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("courseforge-backend"))

	allowOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS")); raw != "" {
		allowOrigins = strings.Split(raw, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/api/newsletter/subscribe", cfg.MailingListHandler.Subscribe)
	router.DELETE("/api/newsletter/subscribe", cfg.MailingListHandler.Unsubscribe)
	router.GET("/api/taxonomy/categories", cfg.TaxonomyHandler.ListCategories)

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/me", cfg.AuthHandler.Me)
	protected.POST("/courses/save", cfg.CourseHandler.SaveGenerated)
	protected.POST("/courses/generate", cfg.CourseHandler.Generate)
	protected.GET("/courses/title-suggestions", cfg.CourseHandler.TitleSuggestions)
	protected.GET("/courses/mine", cfg.CourseHandler.ListMine)
	protected.POST("/taxonomy/subcategories", cfg.TaxonomyHandler.EnsureSubCategory)
	protected.GET("/images/search", cfg.ImageHandler.Search)
	protected.DELETE("/admin/generated-content", cfg.AdminHandler.DeleteGeneratedContent)

	return router
}
