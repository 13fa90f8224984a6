package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edulane/slotbook-api/internal/models"
)

// SlotRepository handles persistence of bookable slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository constructs the repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = `slot_id, teacher_id, course_id, slot_date, start_time, end_time, capacity, status, reserved_by_user_id`

// FindByID returns a slot by its ID.
func (r *SlotRepository) FindByID(ctx context.Context, id int64) (*models.Slot, error) {
	query := fmt.Sprintf(`SELECT %s FROM slots WHERE slot_id = $1`, slotColumns)
	var slot models.Slot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// BulkInsert persists normalized slot rows in one transaction, skipping exact
// duplicates of (teacher_id, start_time, end_time). Returns the number of
// rows actually inserted.
func (r *SlotRepository) BulkInsert(ctx context.Context, slots []models.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	const query = `INSERT INTO slots (teacher_id, course_id, slot_date, start_time, end_time, capacity, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (teacher_id, start_time, end_time) DO NOTHING`
	inserted := 0
	for i := range slots {
		res, err := tx.ExecContext(ctx, query,
			slots[i].TeacherID,
			slots[i].CourseID,
			slots[i].SlotDate,
			slots[i].StartTime,
			slots[i].EndTime,
			slots[i].Capacity,
			slots[i].Status,
		)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return 0, fmt.Errorf("insert slot: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			inserted += int(affected)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit slots: %w", err)
	}
	return inserted, nil
}

// List returns slots filtered by the provided criteria, newest-starting last.
func (r *SlotRepository) List(ctx context.Context, filter models.SlotFilter) ([]models.Slot, int, error) {
	var conditions []string
	var args []interface{}

	if filter.TeacherID != 0 {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.CourseID != 0 {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.OpenOnly {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, models.SlotStatusOpen)
	}
	if filter.HasRange {
		conditions = append(conditions, fmt.Sprintf("slot_date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("slot_date <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	} else {
		conditions = append(conditions, fmt.Sprintf("start_time > $%d", len(args)+1))
		args = append(args, time.Now().UTC())
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM slots%s ORDER BY start_time ASC LIMIT %d OFFSET %d`,
		slotColumns, clause, size, offset)

	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM slots%s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}
	return slots, total, nil
}

// PurgeExpired deletes every slot whose window has already ended. The legacy
// system deletes by end_time alone, without filtering on status; that
// behaviour is preserved deliberately.
func (r *SlotRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM slots WHERE end_time < $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired slots: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return deleted, nil
}

// SoftHold records a non-transactional hold marker on a slot. Distinct from
// the atomic reservation path; it never affects the capacity check.
func (r *SlotRepository) SoftHold(ctx context.Context, slotID, userID int64) error {
	const query = `UPDATE slots SET reserved_by_user_id = $2 WHERE slot_id = $1`
	if _, err := r.db.ExecContext(ctx, query, slotID, userID); err != nil {
		return fmt.Errorf("soft hold slot: %w", err)
	}
	return nil
}
