package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulane/slotbook-api/internal/models"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
	"github.com/edulane/slotbook-api/pkg/timezone"
)

type slotRepository interface {
	BulkInsert(ctx context.Context, slots []models.Slot) (int, error)
	FindByID(ctx context.Context, id int64) (*models.Slot, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error)
}

// SlotEntry is one requested slot in a creation batch. Times are wall-clock
// strings in the teacher's zone unless they carry an explicit offset.
type SlotEntry struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Capacity  int    `json:"capacity" validate:"omitempty,min=1"`
	CourseID  int64  `json:"courseId"`
}

// CreateSlotsRequest describes a batch slot creation payload.
type CreateSlotsRequest struct {
	TeacherID int64       `json:"teacherId" validate:"required"`
	Slots     []SlotEntry `json:"slots" validate:"required,min=1,dive"`
}

// SlotService owns slot lifecycle: batch creation and expiry purge.
type SlotService struct {
	repo      slotRepository
	teachers  teacherReader
	courses   courseReader
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewSlotService constructs SlotService.
func NewSlotService(repo slotRepository, teachers teacherReader, courses courseReader, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *SlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{repo: repo, teachers: teachers, courses: courses, validator: validate, metrics: metrics, logger: logger}
}

// CreateSlots normalizes and persists a batch of slots for a teacher. The
// whole batch is validated before anything is written; a single unparsable
// entry fails the request with no partial insert.
func (s *SlotService) CreateSlots(ctx context.Context, req CreateSlotsRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot batch payload")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	zone := teacher.ResolveZone()
	if zone == "" {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "teacher timezone not configured")
	}

	assigned, err := s.resolveAssignedCourse(ctx, req.TeacherID)
	if err != nil {
		return 0, err
	}

	rows := make([]models.Slot, 0, len(req.Slots))
	for _, entry := range req.Slots {
		courseID, err := bindCourse(entry.CourseID, assigned)
		if err != nil {
			return 0, err
		}

		start, err := timezone.ToUTC(entry.StartTime, zone)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unparsable start_time")
		}
		end, err := timezone.ToUTC(entry.EndTime, zone)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unparsable end_time")
		}
		if !start.Before(end) {
			return 0, appErrors.Clone(appErrors.ErrValidation, "start_time must precede end_time")
		}

		capacity := entry.Capacity
		if capacity <= 0 {
			capacity = 1
		}

		rows = append(rows, models.Slot{
			TeacherID: req.TeacherID,
			CourseID:  courseID,
			SlotDate:  time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
			StartTime: start,
			EndTime:   end,
			Capacity:  capacity,
			Status:    models.SlotStatusOpen,
		})
	}

	inserted, err := s.repo.BulkInsert(ctx, rows)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slots")
	}
	s.logger.Info("slots created",
		zap.Int64("teacher_id", req.TeacherID),
		zap.Int("requested", len(rows)),
		zap.Int("inserted", inserted),
	)
	return inserted, nil
}

// PurgeExpired removes slots whose window has passed. Callers treat failures
// as best-effort hygiene, not correctness.
func (s *SlotService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.metrics.RecordPurged(deleted)
		s.logger.Info("expired slots purged", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// resolveAssignedCourse returns the teacher's single assigned course when
// exactly one exists; nil otherwise.
func (s *SlotService) resolveAssignedCourse(ctx context.Context, teacherID int64) (*int64, error) {
	courses, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher courses")
	}
	if len(courses) == 1 {
		id := courses[0].ID
		return &id, nil
	}
	return nil, nil
}

func bindCourse(explicit int64, assigned *int64) (*int64, error) {
	if explicit != 0 {
		if assigned != nil && *assigned != explicit {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "slot course does not match the teacher's assigned course")
		}
		id := explicit
		return &id, nil
	}
	if assigned != nil {
		id := *assigned
		return &id, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required when the teacher has no single assigned course")
}
