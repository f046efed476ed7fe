package app

import (
	"github.com/courseforge/backend/internal/handlers"
	"github.com/courseforge/backend/internal/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Course      *handlers.CourseHandler
	Taxonomy    *handlers.TaxonomyHandler
	Image       *handlers.ImageHandler
	MailingList *handlers.MailingListHandler
	Admin       *handlers.AdminHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(log, services.Auth, services.Member),
		Course:      handlers.NewCourseHandler(log, services.CourseSave, services.CourseGeneration, services.Member),
		Taxonomy:    handlers.NewTaxonomyHandler(log, services.Taxonomy),
		Image:       handlers.NewImageHandler(log, services.ImageSearch),
		MailingList: handlers.NewMailingListHandler(log, services.MailingList),
		Admin:       handlers.NewAdminHandler(log, services.Cleanup),
	}
}
