package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"gorm.io/datatypes"
)

// activity describes a successful mutation
type activity struct {
	action     models.AuditAction
	eventType  events.EventType
	formID     uint
	actorID    string
	targetType string
	targetID   uint
	data       interface{}
	// touched lists extra forms whose cached view became stale, e.g. the source of a move
	touched []uint
}

// activityRecorder runs the side effects of a committed mutation: public
// cache invalidation, the audit row and the domain event. None of them can
// fail the mutation; failures are logged.
type activityRecorder struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
}

func newActivityRecorder(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger) *activityRecorder {
	return &activityRecorder{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
	}
}

func (r *activityRecorder) record(ctx context.Context, a activity) {
	r.invalidate(ctx, append([]uint{a.formID}, a.touched...)...)
	r.audit(ctx, a)

	if a.eventType == "" {
		return
	}
	event := events.NewFormEvent(a.eventType, a.formID, a.actorID, a.data)
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish form event",
			"event_type", a.eventType,
			"form_id", a.formID,
			"error", err)
	}
}

func (r *activityRecorder) audit(ctx context.Context, a activity) {
	entry := &models.AuditLog{
		FormID:     a.formID,
		Action:     a.action,
		ActorID:    a.actorID,
		TargetType: a.targetType,
		TargetID:   a.targetID,
	}
	if a.data != nil {
		details, err := json.Marshal(a.data)
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to marshal audit details", "action", a.action, "error", err)
		} else {
			entry.Details = datatypes.JSON(details)
		}
	}
	if requestID, ok := utils.RequestIDFromContext(ctx); ok {
		entry.RequestID = &requestID
	}

	if err := r.repo.Audit().Create(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "Failed to write audit log",
			"action", a.action,
			"form_id", a.formID,
			"error", err)
	}
}

// invalidate bumps the cache generation of every form so readers that loaded
// the old tree before the commit cannot publish it under the current key
func (r *activityRecorder) invalidate(ctx context.Context, formIDs ...uint) {
	seen := make(map[uint]bool, len(formIDs))
	for _, id := range formIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true

		generation, err := r.cache.Increment(ctx, cache.PublicFormGenerationKey(id))
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to invalidate cached form", "form_id", id, "error", err)
			continue
		}
		if err := r.cache.Delete(ctx, cache.PublicFormKey(id, generation-1)); err != nil {
			r.logger.WarnContext(ctx, "Failed to drop stale cached form", "form_id", id, "error", err)
		}
	}
}
