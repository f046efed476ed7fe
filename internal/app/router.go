package app

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlers.Auth,
		AuthMiddleware:     middleware.Auth,
		CourseHandler:      handlers.Course,
		TaxonomyHandler:    handlers.Taxonomy,
		ImageHandler:       handlers.Image,
		MailingListHandler: handlers.MailingList,
		AdminHandler:       handlers.Admin,
	})
}
