package models

import "time"

// SessionStatus represents the scheduling state of a class instance.
type SessionStatus string

// SessionType distinguishes demo classes from regular ones.
type SessionType string

// ClassType describes the class format.
type ClassType string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"

	SessionTypeDemo    SessionType = "demo"
	SessionTypeRegular SessionType = "regular"

	ClassTypeOneToOne ClassType = "one_to_one"
	ClassTypeGroup    ClassType = "group"
)

// Session is the concrete scheduled class instance produced by a successful
// reservation. Created 1:1 with its enrollment inside the same transaction.
type Session struct {
	ID         int64         `db:"session_id" json:"session_id"`
	UserID     int64         `db:"user_id" json:"user_id"`
	TeacherID  int64         `db:"teacher_id" json:"teacher_id"`
	SlotID     int64         `db:"slot_id" json:"slot_id"`
	CourseID   int64         `db:"course_id" json:"course_id"`
	ScheduleAt time.Time     `db:"schedule_at" json:"schedule_at"`
	Type       SessionType   `db:"session_type" json:"session_type"`
	Status     SessionStatus `db:"status" json:"status"`
	ClassType  ClassType     `db:"class_type" json:"class_type"`
}

// ReservationResult is returned by a successful demo reservation.
type ReservationResult struct {
	Enrollment    Enrollment `json:"enrollment"`
	Session       Session    `json:"session"`
	ReservedCount int        `json:"reservedCount"`
}
