package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edulane/slotbook-api/internal/models"
)

// EnrollmentRepository reads enrollment state for capacity annotation and
// schedule views. Enrollment writes happen only inside the reservation
// transaction.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// CountActiveBySlot returns the number of active enrollments holding a seat
// on the slot. Read-committed and unlocked; informational only.
func (r *EnrollmentRepository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE slot_id = $1 AND is_active = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, slotID); err != nil {
		return 0, fmt.Errorf("count slot enrollments: %w", err)
	}
	return count, nil
}

// CountActiveDemo returns the user's active demo enrollments for a course.
func (r *EnrollmentRepository) CountActiveDemo(ctx context.Context, userID, courseID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments
        WHERE user_id = $1 AND course_id = $2 AND enrollment_type = $3 AND is_active = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, courseID, models.EnrollmentTypeDemo); err != nil {
		return 0, fmt.Errorf("count demo enrollments: %w", err)
	}
	return count, nil
}

type studentDemoRow struct {
	EnrollmentID   int64     `db:"enrollment_id"`
	CourseID       int64     `db:"course_id"`
	EnrollmentDate time.Time `db:"enrollment_date"`

	SlotID        *int64             `db:"slot_id"`
	SlotDate      *time.Time         `db:"slot_date"`
	StartTime     *time.Time         `db:"start_time"`
	EndTime       *time.Time         `db:"end_time"`
	Capacity      *int               `db:"capacity"`
	SlotStatus    *models.SlotStatus `db:"slot_status"`
	SlotTeacherID *int64             `db:"slot_teacher_id"`

	TeacherID   *int64  `db:"teacher_id"`
	TeacherName *string `db:"teacher_name"`

	SessionID     *int64                `db:"session_id"`
	ScheduleAt    *time.Time            `db:"schedule_at"`
	SessionStatus *models.SessionStatus `db:"session_status"`
	SessionType   *models.SessionType   `db:"session_type"`
	ClassType     *models.ClassType     `db:"class_type"`
}

// StudentDemoSchedule returns the user's active demo enrollments with their
// slot, teacher and session nested. Timezone projection is the caller's job.
func (r *EnrollmentRepository) StudentDemoSchedule(ctx context.Context, userID int64) ([]models.StudentScheduleItem, error) {
	const query = `SELECT e.enrollment_id, e.course_id, e.enrollment_date,
        e.slot_id, sl.slot_date, sl.start_time, sl.end_time, sl.capacity,
        sl.status AS slot_status, sl.teacher_id AS slot_teacher_id,
        t.teacher_id, t.full_name AS teacher_name,
        s.session_id, s.schedule_at, s.status AS session_status,
        s.session_type, s.class_type
        FROM enrollments e
        LEFT JOIN slots sl ON sl.slot_id = e.slot_id
        LEFT JOIN teachers t ON t.teacher_id = sl.teacher_id
        LEFT JOIN sessions s ON s.session_id = e.session_id
        WHERE e.user_id = $1 AND e.enrollment_type = $2 AND e.is_active = TRUE
        ORDER BY e.enrollment_date DESC`

	var rows []studentDemoRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, models.EnrollmentTypeDemo); err != nil {
		return nil, fmt.Errorf("student demo schedule: %w", err)
	}

	items := make([]models.StudentScheduleItem, 0, len(rows))
	for _, row := range rows {
		item := models.StudentScheduleItem{
			EnrollmentID:   row.EnrollmentID,
			CourseID:       row.CourseID,
			EnrollmentDate: row.EnrollmentDate,
		}
		if row.SlotID != nil && row.StartTime != nil && row.EndTime != nil {
			slot := models.Slot{
				ID:        *row.SlotID,
				StartTime: *row.StartTime,
				EndTime:   *row.EndTime,
			}
			if row.SlotTeacherID != nil {
				slot.TeacherID = *row.SlotTeacherID
			}
			if row.SlotDate != nil {
				slot.SlotDate = *row.SlotDate
			}
			if row.Capacity != nil {
				slot.Capacity = *row.Capacity
			}
			if row.SlotStatus != nil {
				slot.Status = *row.SlotStatus
			}
			item.Slot = &slot
		}
		if row.TeacherID != nil {
			item.TeacherID = *row.TeacherID
		}
		if row.TeacherName != nil {
			item.TeacherName = *row.TeacherName
		}
		if row.SessionID != nil && row.ScheduleAt != nil {
			session := models.ScheduledSession{
				SessionID:  *row.SessionID,
				ScheduleAt: *row.ScheduleAt,
			}
			if row.SessionStatus != nil {
				session.Status = *row.SessionStatus
			}
			if row.SessionType != nil {
				session.Type = *row.SessionType
			}
			if row.ClassType != nil {
				session.ClassType = *row.ClassType
			}
			item.Session = &session
		}
		items = append(items, item)
	}
	return items, nil
}
