package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edulane/slotbook-api/internal/models"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
	"github.com/edulane/slotbook-api/pkg/timezone"
)

type demoScheduleReader interface {
	StudentDemoSchedule(ctx context.Context, userID int64) ([]models.StudentScheduleItem, error)
}

// ScheduleService serves a student's demo schedule projected into the
// student's own timezone. The timezone is required: the student is the
// viewing party here, so there is no teacher-zone fallback.
type ScheduleService struct {
	enrollments demoScheduleReader
	logger      *zap.Logger
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(enrollments demoScheduleReader, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{enrollments: enrollments, logger: logger}
}

// GetStudentDemoSchedule returns the user's active demo enrollments with
// session times localized into the supplied zone.
func (s *ScheduleService) GetStudentDemoSchedule(ctx context.Context, userID int64, zone string) ([]models.StudentScheduleItem, error) {
	if userID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid user id")
	}
	if zone == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timezone is required")
	}
	if err := timezone.Validate(zone); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown timezone")
	}

	items, err := s.enrollments.StudentDemoSchedule(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student schedule")
	}

	for i := range items {
		items[i].Timezone = zone
		if items[i].Session == nil {
			continue
		}
		local, err := timezone.LocalDisplay(items[i].Session.ScheduleAt, zone)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown timezone")
		}
		items[i].Session.LocalScheduleAt = local
	}
	return items, nil
}
