package services

import (
	"context"
	"fmt"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

// CleanupReport aggregates per-type outcomes of a bulk deletion pass.
// Partial failure is expected and reported alongside successes.
type CleanupReport struct {
	Deleted  map[string]int `json:"deleted"`
	Failures []string       `json:"failures,omitempty"`
}

// CleanupService is admin tooling: bulk-deletes AI-generated documents,
// continuing on error per document type. Unlike the course save path this is
// explicitly best-effort, not transactional.
type CleanupService interface {
	DeleteGeneratedContent(ctx context.Context) (*CleanupReport, error)
}

type cleanupService struct {
	store store.Client
	log   *logger.Logger
}

func NewCleanupService(storeClient store.Client, baseLog *logger.Logger) CleanupService {
	return &cleanupService{
		store: storeClient,
		log:   baseLog.With("service", "CleanupService"),
	}
}

// Deletion order matters: lessons and tags reference courses weakly, but
// courses hold strong references to lessons and tags, so courses go first.
var cleanupOrder = []string{types.TypeCourse, types.TypeLesson, types.TypeCourseTag}

func (cs *cleanupService) DeleteGeneratedContent(ctx context.Context) (*CleanupReport, error) {
	report := &CleanupReport{Deleted: map[string]int{}}

	for _, docType := range cleanupOrder {
		ids := []string{}
		err := cs.store.Fetch(ctx, `*[_type == $type]._id`, map[string]any{"type": docType}, &ids)
		if err != nil {
			msg := fmt.Sprintf("list %s documents: %v", docType, err)
			cs.log.Warn("Cleanup listing failed, continuing with next type", "type", docType, "error", err)
			report.Failures = append(report.Failures, msg)
			continue
		}

		for _, id := range ids {
			if err := cs.store.Delete(ctx, id); err != nil {
				msg := fmt.Sprintf("delete %s: %v", id, err)
				cs.log.Warn("Cleanup delete failed, continuing", "id", id, "error", err)
				report.Failures = append(report.Failures, msg)
				continue
			}
			report.Deleted[docType]++
		}
	}

	cs.log.Info("Cleanup pass finished", "deleted", report.Deleted, "failures", len(report.Failures))
	return report, nil
}
