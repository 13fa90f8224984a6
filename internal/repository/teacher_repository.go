package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/edulane/slotbook-api/internal/models"
)

// TeacherRepository reads the teacher roster: identity plus the timezone a
// teacher publishes slots in. Roster management lives outside this core.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID returns a teacher with their own zone and the assigned country's
// zone as fallback.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	const query = `SELECT t.teacher_id, t.full_name, t.zone, c.zone AS country_zone
        FROM teachers t
        LEFT JOIN countries c ON c.country_id = t.country_id
        WHERE t.teacher_id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}
