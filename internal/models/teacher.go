package models

// Teacher is the roster view this core consumes: the timezone the teacher
// publishes slots in and identity for schedule projections. Roster writes
// happen outside the booking core.
type Teacher struct {
	ID          int64   `db:"teacher_id" json:"teacher_id"`
	FullName    string  `db:"full_name" json:"full_name"`
	Zone        *string `db:"zone" json:"zone,omitempty"`
	CountryZone *string `db:"country_zone" json:"country_zone,omitempty"`
}

// ResolveZone returns the teacher's own zone, falling back to the assigned
// country's zone. Empty when neither is set.
func (t Teacher) ResolveZone() string {
	if t.Zone != nil && *t.Zone != "" {
		return *t.Zone
	}
	if t.CountryZone != nil && *t.CountryZone != "" {
		return *t.CountryZone
	}
	return ""
}
