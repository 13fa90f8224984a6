package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/edulane/slotbook-api/internal/models"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
	"github.com/edulane/slotbook-api/pkg/timezone"
)

type availabilitySlotRepository interface {
	List(ctx context.Context, filter models.SlotFilter) ([]models.Slot, int, error)
}

type enrollmentCounter interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
}

// AvailabilityQuery captures listing filters as received from the API.
type AvailabilityQuery struct {
	TeacherID int64
	CourseID  int64
	Timezone  string
	DateFrom  string
	DateTo    string
	OpenOnly  bool
	Page      int
	PageSize  int
}

// AvailabilityService projects slots with live reservation counts and
// timezone-localized display times. Counts read here are informational; the
// authoritative capacity check happens inside the reservation transaction.
type AvailabilityService struct {
	slots       availabilitySlotRepository
	enrollments enrollmentCounter
	teachers    teacherReader
	purger      *SlotService
	cache       *CacheService
	logger      *zap.Logger
	purgeOnList bool
}

// NewAvailabilityService constructs AvailabilityService.
func NewAvailabilityService(slots availabilitySlotRepository, enrollments enrollmentCounter, teachers teacherReader, purger *SlotService, cache *CacheService, logger *zap.Logger, purgeOnList bool) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{slots: slots, enrollments: enrollments, teachers: teachers, purger: purger, cache: cache, logger: logger, purgeOnList: purgeOnList}
}

type cachedAvailability struct {
	Items []models.SlotProjection `json:"items"`
	Total int                     `json:"total"`
}

// ListSlots returns slot projections matching the query plus the total count.
func (s *AvailabilityService) ListSlots(ctx context.Context, q AvailabilityQuery) ([]models.SlotProjection, int, error) {
	zone, err := s.resolveZone(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	filter, err := buildSlotFilter(q, zone)
	if err != nil {
		return nil, 0, err
	}

	// Opportunistic hygiene; a failed purge never blocks a listing.
	if s.purgeOnList && s.purger != nil {
		if _, err := s.purger.PurgeExpired(ctx); err != nil {
			s.logger.Warn("slot purge failed", zap.Error(err))
		}
	}

	key := availabilityCacheKey(q, zone)
	var cached cachedAvailability
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached.Items, cached.Total, nil
	}

	slots, total, err := s.slots.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}

	items := make([]models.SlotProjection, 0, len(slots))
	for _, slot := range slots {
		reserved, err := s.enrollments.CountActiveBySlot(ctx, slot.ID)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reservations")
		}
		localStart, err := timezone.LocalDisplay(slot.StartTime, zone)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid display timezone")
		}
		localEnd, err := timezone.LocalDisplay(slot.EndTime, zone)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid display timezone")
		}
		items = append(items, models.SlotProjection{
			Slot:           slot,
			ReservedCount:  reserved,
			IsAvailable:    reserved < slot.Capacity,
			LocalStartTime: localStart,
			LocalEndTime:   localEnd,
			Timezone:       zone,
		})
	}

	if err := s.cache.Set(ctx, key, cachedAvailability{Items: items, Total: total}, 0); err != nil {
		s.logger.Warn("availability cache write failed", zap.Error(err))
	}

	return items, total, nil
}

// GetTeacherOpenSlots lists a teacher's open slots with the same projection.
func (s *AvailabilityService) GetTeacherOpenSlots(ctx context.Context, teacherID int64, q AvailabilityQuery) ([]models.SlotProjection, int, error) {
	if teacherID <= 0 {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "invalid teacher id")
	}
	q.TeacherID = teacherID
	q.OpenOnly = true
	return s.ListSlots(ctx, q)
}

// resolveZone picks the display timezone: explicit filter, then the teacher's
// own zone, then UTC.
func (s *AvailabilityService) resolveZone(ctx context.Context, q AvailabilityQuery) (string, error) {
	if q.Timezone != "" {
		if err := timezone.Validate(q.Timezone); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown timezone")
		}
		return q.Timezone, nil
	}
	if q.TeacherID != 0 {
		teacher, err := s.teachers.FindByID(ctx, q.TeacherID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "UTC", nil
			}
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
		if zone := teacher.ResolveZone(); zone != "" {
			return zone, nil
		}
	}
	return "UTC", nil
}

func buildSlotFilter(q AvailabilityQuery, zone string) (models.SlotFilter, error) {
	filter := models.SlotFilter{
		TeacherID: q.TeacherID,
		CourseID:  q.CourseID,
		OpenOnly:  q.OpenOnly,
		Page:      q.Page,
		PageSize:  q.PageSize,
	}

	if q.DateFrom == "" && q.DateTo == "" {
		return filter, nil
	}
	if q.DateFrom == "" || q.DateTo == "" {
		return filter, appErrors.Clone(appErrors.ErrValidation, "dateFrom and dateTo must be provided together")
	}

	// Offset-qualified bounds are absolute instants; bare dates span the
	// local calendar day in the display zone.
	from := q.DateFrom
	if timezone.HasExplicitOffset(from) {
		instant, err := timezone.ToUTC(from, "")
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unparsable dateFrom")
		}
		filter.DateFrom = instant
	} else {
		start, _, err := timezone.LocalDayBounds(from, zone)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unparsable dateFrom")
		}
		filter.DateFrom = start
	}

	to := q.DateTo
	if timezone.HasExplicitOffset(to) {
		instant, err := timezone.ToUTC(to, "")
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unparsable dateTo")
		}
		filter.DateTo = instant
	} else {
		_, end, err := timezone.LocalDayBounds(to, zone)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unparsable dateTo")
		}
		filter.DateTo = end
	}

	filter.HasRange = true
	return filter, nil
}

func availabilityCacheKey(q AvailabilityQuery, zone string) string {
	return fmt.Sprintf("slots:%d:%d:%s:%s:%s:%t:%d:%d",
		q.TeacherID, q.CourseID, zone, q.DateFrom, q.DateTo, q.OpenOnly, q.Page, q.PageSize)
}
