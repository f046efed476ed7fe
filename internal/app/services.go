package app

import (
	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/services"
)

type Services struct {
	Auth             services.AuthService
	Member           services.MemberService
	CourseSave       services.CourseSaveService
	CourseGeneration services.CourseGenerationService
	Taxonomy         services.TaxonomyService
	ImageSearch      services.ImageSearchService
	MailingList      services.MailingListService
	Cleanup          services.CleanupService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	aiClient, err := services.NewGenerativeClient(log)
	if err != nil {
		return Services{}, err
	}
	promptService, err := services.NewPromptService(log)
	if err != nil {
		return Services{}, err
	}

	slugAllocator := services.NewSlugAllocator(clients.Store, log)
	tagResolver := services.NewTagResolver(clients.Store, log)
	saveService := services.NewCourseSaveService(clients.Store, log, slugAllocator, tagResolver)
	genService := services.NewCourseGenerationService(clients.Store, log, aiClient, promptService, saveService, clients.Cache)

	imageService, err := services.NewImageSearchService(log, clients.Cache)
	if err != nil {
		return Services{}, err
	}
	mailingService, err := services.NewMailingListService(log)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:             services.NewAuthService(clients.Store, log, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.StartingCredits),
		Member:           services.NewMemberService(clients.Store, log),
		CourseSave:       saveService,
		CourseGeneration: genService,
		Taxonomy:         services.NewTaxonomyService(clients.Store, log),
		ImageSearch:      imageService,
		MailingList:      mailingService,
		Cleanup:          services.NewCleanupService(clients.Store, log),
	}, nil
}
