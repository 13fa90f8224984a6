package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulane/slotbook-api/internal/models"
	"github.com/edulane/slotbook-api/internal/repository"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
)

type reservationRepository interface {
	ReserveDemo(ctx context.Context, slotID, userID, courseID int64, demoQuota int) (*models.ReservationResult, error)
}

type slotHolder interface {
	SoftHold(ctx context.Context, slotID, userID int64) error
}

// ReserveDemoRequest is the reservation payload.
type ReserveDemoRequest struct {
	UserID   int64 `json:"userId" validate:"required"`
	CourseID int64 `json:"courseId" validate:"required"`
}

// ReservationService wraps the transactional reservation engine with
// validation, error mapping, metrics and cache invalidation.
type ReservationService struct {
	repo      reservationRepository
	holder    slotHolder
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	demoQuota int
	timeout   time.Duration
}

// NewReservationService constructs ReservationService.
func NewReservationService(repo reservationRepository, holder slotHolder, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, demoQuota int, timeout time.Duration) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if demoQuota <= 0 {
		demoQuota = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReservationService{repo: repo, holder: holder, cache: cache, metrics: metrics, validator: validate, logger: logger, demoQuota: demoQuota, timeout: timeout}
}

// Reserve atomically claims one seat on the slot for the user. The bounded
// timeout covers the whole transaction including lock wait; on expiry the
// transaction aborts with no partial state.
func (s *ReservationService) Reserve(ctx context.Context, slotID int64, req ReserveDemoRequest) (*models.ReservationResult, error) {
	if slotID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid slot id")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.repo.ReserveDemo(ctx, slotID, req.UserID, req.CourseID, s.demoQuota)
	if err != nil {
		outcome, mapped := mapReservationError(err)
		s.metrics.RecordReservation(outcome)
		s.logger.Info("reservation rejected",
			zap.Int64("slot_id", slotID),
			zap.Int64("user_id", req.UserID),
			zap.Int64("course_id", req.CourseID),
			zap.String("outcome", outcome),
		)
		return nil, mapped
	}

	s.metrics.RecordReservation("confirmed")
	s.logger.Info("reservation confirmed",
		zap.Int64("slot_id", slotID),
		zap.Int64("user_id", req.UserID),
		zap.Int64("enrollment_id", result.Enrollment.ID),
		zap.Int64("session_id", result.Session.ID),
		zap.Int("reserved_count", result.ReservedCount),
	)

	// Record the latest reserver on the slot row. A display marker outside
	// the transaction; failures are logged, never surfaced.
	if s.holder != nil {
		if err := s.holder.SoftHold(context.WithoutCancel(ctx), slotID, req.UserID); err != nil {
			s.logger.Warn("slot hold marker update failed", zap.Error(err))
		}
	}

	// Cached availability pages are stale now; drop them. The cache is
	// informational, so a failed invalidation is logged, not surfaced.
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), "slots:*"); err != nil {
		s.logger.Warn("availability cache invalidation failed", zap.Error(err))
	}

	return result, nil
}

func mapReservationError(err error) (string, error) {
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		return "slot_not_found", appErrors.Clone(appErrors.ErrNotFound, "Slot not found.")
	case errors.Is(err, repository.ErrSlotNotOpen):
		return "slot_not_open", appErrors.Clone(appErrors.ErrInvalidState, "Slot is not open for booking.")
	case errors.Is(err, repository.ErrCourseMismatch):
		return "course_mismatch", appErrors.Clone(appErrors.ErrInvalidState, "Slot does not belong to this course.")
	case errors.Is(err, repository.ErrSlotInPast):
		return "slot_in_past", appErrors.Clone(appErrors.ErrInvalidState, "Cannot book a past slot.")
	case errors.Is(err, repository.ErrSlotFull):
		return "slot_full", appErrors.Clone(appErrors.ErrCapacityExceeded, "Slot is full.")
	case errors.Is(err, repository.ErrQuotaReached):
		return "quota_exceeded", appErrors.Clone(appErrors.ErrQuotaExceeded, "Demo session limit reached for this course.")
	case errors.Is(err, repository.ErrCourseNotFound):
		return "course_not_found", appErrors.Clone(appErrors.ErrNotFound, "Course not found.")
	default:
		return "error", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "reservation failed")
	}
}
