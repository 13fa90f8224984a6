package models

import "time"

// ScheduledSession is a session projected into a viewer's timezone.
type ScheduledSession struct {
	SessionID       int64         `json:"session_id"`
	ScheduleAt      time.Time     `json:"schedule_at"`
	LocalScheduleAt string        `json:"local_schedule_at"`
	Status          SessionStatus `json:"status"`
	Type            SessionType   `json:"session_type"`
	ClassType       ClassType     `json:"class_type"`
}

// StudentScheduleItem is one row of a student's demo schedule: the active
// enrollment, its slot and teacher, and the single associated session when
// one exists.
type StudentScheduleItem struct {
	EnrollmentID   int64             `json:"enrollment_id"`
	CourseID       int64             `json:"course_id"`
	EnrollmentDate time.Time         `json:"enrollment_date"`
	Slot           *Slot             `json:"slot,omitempty"`
	TeacherID      int64             `json:"teacher_id"`
	TeacherName    string            `json:"teacher_name"`
	Session        *ScheduledSession `json:"session"`
	Timezone       string            `json:"timezone"`
}
