package models

import "time"

// SlotStatus represents the lifecycle of a bookable slot.
type SlotStatus string

// Closed status set matching the persisted check constraint.
// SlotStatusPaidReserved is declared for symmetry with the billing subsystem,
// which owns paid bookings; this service never writes it.
const (
	SlotStatusOpen          SlotStatus = "open"
	SlotStatusTrialReserved SlotStatus = "trial_reserved"
	SlotStatusPaidReserved  SlotStatus = "paid_reserved"
)

// Slot is a teacher-published, capacity-bounded bookable time window.
// All instants are stored in UTC.
type Slot struct {
	ID               int64      `db:"slot_id" json:"slot_id"`
	TeacherID        int64      `db:"teacher_id" json:"teacher_id"`
	CourseID         *int64     `db:"course_id" json:"course_id,omitempty"`
	SlotDate         time.Time  `db:"slot_date" json:"slot_date"`
	StartTime        time.Time  `db:"start_time" json:"start_time"`
	EndTime          time.Time  `db:"end_time" json:"end_time"`
	Capacity         int        `db:"capacity" json:"capacity"`
	Status           SlotStatus `db:"status" json:"status"`
	ReservedByUserID *int64     `db:"reserved_by_user_id" json:"reserved_by_user_id,omitempty"`
}

// SlotFilter captures filtering options for slot listings.
type SlotFilter struct {
	TeacherID int64
	CourseID  int64
	OpenOnly  bool
	DateFrom  time.Time
	DateTo    time.Time
	HasRange  bool
	Page      int
	PageSize  int
}

// SlotProjection annotates a slot with its live reservation state and
// timezone-projected display times. The reserved count here is informational;
// the authoritative check lives inside the reservation transaction.
type SlotProjection struct {
	Slot
	ReservedCount  int    `json:"reserved_count"`
	IsAvailable    bool   `json:"is_available"`
	LocalStartTime string `json:"local_start_time"`
	LocalEndTime   string `json:"local_end_time"`
	Timezone       string `json:"timezone"`
}
