package models

import "time"

// EnrollmentType distinguishes how a user claimed a course.
type EnrollmentType string

// Possible enrollment types.
const (
	EnrollmentTypeDemo  EnrollmentType = "demo"
	EnrollmentTypeTrial EnrollmentType = "trial"
	EnrollmentTypePaid  EnrollmentType = "paid"
)

// Enrollment links a user to a course, optionally tied to a slot and the
// session created alongside it. Demo enrollments are created exclusively by
// the reservation transaction; billing flows deactivate them elsewhere.
type Enrollment struct {
	ID             int64          `db:"enrollment_id" json:"enrollment_id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	CourseID       int64          `db:"course_id" json:"course_id"`
	SlotID         *int64         `db:"slot_id" json:"slot_id,omitempty"`
	SessionID      *int64         `db:"session_id" json:"session_id,omitempty"`
	Type           EnrollmentType `db:"enrollment_type" json:"enrollment_type"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	EnrollmentDate time.Time      `db:"enrollment_date" json:"enrollment_date"`
}
