package models

// Course is the catalog entry a slot may be bound to. Read-only here; course
// CRUD lives outside the booking core.
type Course struct {
	ID    int64  `db:"course_id" json:"course_id"`
	Title string `db:"title" json:"title"`
}
