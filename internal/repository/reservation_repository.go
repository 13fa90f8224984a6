package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edulane/slotbook-api/internal/models"
)

// Sentinel failures surfaced by the reservation transaction. The service
// layer maps them onto HTTP-aware errors.
var (
	ErrSlotNotFound   = errors.New("slot not found")
	ErrSlotNotOpen    = errors.New("slot is not open for booking")
	ErrCourseMismatch = errors.New("slot does not belong to this course")
	ErrSlotInPast     = errors.New("slot start time is in the past")
	ErrSlotFull       = errors.New("slot capacity reached")
	ErrQuotaReached   = errors.New("demo quota reached")
	ErrCourseNotFound = errors.New("course not found")
)

// ReservationRepository executes the atomic demo reservation. The slot row
// lock is the sole synchronization point: concurrent claims on one slot are
// serialized by the database, claims on different slots never block each
// other.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs the repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// ReserveDemo claims one seat on the slot for the user inside a single
// transaction, creating the session and enrollment and flipping the slot
// status when the claim fills it. Any validation failure rolls the whole
// transaction back; nothing is persisted on error.
func (r *ReservationRepository) ReserveDemo(ctx context.Context, slotID, userID, courseID int64, demoQuota int) (*models.ReservationResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reservation: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Exclusive row lock: a second caller targeting this slot waits here
	// until this transaction commits or rolls back, then re-reads the
	// committed state.
	const lockQuery = `SELECT slot_id, teacher_id, course_id, slot_date, start_time, end_time, capacity, status, reserved_by_user_id
        FROM slots WHERE slot_id = $1 FOR UPDATE`
	var slot models.Slot
	if err := tx.GetContext(ctx, &slot, lockQuery, slotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("lock slot: %w", err)
	}

	now := time.Now().UTC()
	if slot.Status != models.SlotStatusOpen {
		return nil, ErrSlotNotOpen
	}
	if slot.CourseID != nil && *slot.CourseID != courseID {
		return nil, ErrCourseMismatch
	}
	if !slot.StartTime.After(now) {
		return nil, ErrSlotInPast
	}

	var reserved int
	const reservedQuery = `SELECT COUNT(*) FROM enrollments WHERE slot_id = $1 AND is_active = TRUE`
	if err := tx.GetContext(ctx, &reserved, reservedQuery, slotID); err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}
	if reserved >= slot.Capacity {
		return nil, ErrSlotFull
	}

	var demoCount int
	const quotaQuery = `SELECT COUNT(*) FROM enrollments
        WHERE user_id = $1 AND course_id = $2 AND enrollment_type = $3 AND is_active = TRUE`
	if err := tx.GetContext(ctx, &demoCount, quotaQuery, userID, courseID, models.EnrollmentTypeDemo); err != nil {
		return nil, fmt.Errorf("count demo quota: %w", err)
	}
	if demoCount >= demoQuota {
		return nil, ErrQuotaReached
	}

	var course models.Course
	if err := tx.GetContext(ctx, &course, `SELECT course_id, title FROM courses WHERE course_id = $1`, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	session := models.Session{
		UserID:     userID,
		TeacherID:  slot.TeacherID,
		SlotID:     slot.ID,
		CourseID:   courseID,
		ScheduleAt: slot.StartTime,
		Type:       models.SessionTypeDemo,
		Status:     models.SessionStatusScheduled,
		ClassType:  models.ClassTypeOneToOne,
	}
	const sessionQuery = `INSERT INTO sessions (user_id, teacher_id, slot_id, course_id, schedule_at, session_type, status, class_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING session_id`
	if err := tx.GetContext(ctx, &session.ID, sessionQuery,
		session.UserID, session.TeacherID, session.SlotID, session.CourseID,
		session.ScheduleAt, session.Type, session.Status, session.ClassType); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	enrollment := models.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		SlotID:         &slot.ID,
		SessionID:      &session.ID,
		Type:           models.EnrollmentTypeDemo,
		IsActive:       true,
		EnrollmentDate: now,
	}
	const enrollmentQuery = `INSERT INTO enrollments (user_id, course_id, slot_id, session_id, enrollment_type, is_active, enrollment_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING enrollment_id`
	if err := tx.GetContext(ctx, &enrollment.ID, enrollmentQuery,
		enrollment.UserID, enrollment.CourseID, enrollment.SlotID, enrollment.SessionID,
		enrollment.Type, enrollment.IsActive, enrollment.EnrollmentDate); err != nil {
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	reserved++
	if reserved >= slot.Capacity {
		const statusQuery = `UPDATE slots SET status = $2 WHERE slot_id = $1`
		if _, err := tx.ExecContext(ctx, statusQuery, slot.ID, models.SlotStatusTrialReserved); err != nil {
			return nil, fmt.Errorf("update slot status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	return &models.ReservationResult{
		Enrollment:    enrollment,
		Session:       session,
		ReservedCount: reserved,
	}, nil
}
