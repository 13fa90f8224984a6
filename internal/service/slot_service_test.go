package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edulane/slotbook-api/internal/models"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
)

type mockSlotRepo struct {
	inserted     []models.Slot
	insertResult int
	insertErr    error
	purgeDeleted int64
	purgeErr     error
	listResult   []models.Slot
	listTotal    int
	listErr      error
	gotFilter    models.SlotFilter
}

func (m *mockSlotRepo) BulkInsert(ctx context.Context, slots []models.Slot) (int, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.inserted = append(m.inserted, slots...)
	if m.insertResult == 0 {
		return len(slots), nil
	}
	return m.insertResult, nil
}

func (m *mockSlotRepo) FindByID(ctx context.Context, id int64) (*models.Slot, error) {
	for i := range m.listResult {
		if m.listResult[i].ID == id {
			cp := m.listResult[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSlotRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.purgeDeleted, m.purgeErr
}

func (m *mockSlotRepo) List(ctx context.Context, filter models.SlotFilter) ([]models.Slot, int, error) {
	m.gotFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

type mockTeacherReader struct {
	items map[int64]*models.Teacher
	err   error
}

func (m *mockTeacherReader) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if m.err != nil {
		return nil, m.err
	}
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockCourseReader struct {
	courses   map[int64]models.Course
	byTeacher []models.Course
}

func (m *mockCourseReader) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if course, ok := m.courses[id]; ok {
		cp := course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseReader) ListByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error) {
	return m.byTeacher, nil
}

func strPtr(s string) *string { return &s }

func kolkataTeacher() *mockTeacherReader {
	return &mockTeacherReader{items: map[int64]*models.Teacher{
		3: {ID: 3, FullName: "Priya Sharma", Zone: strPtr("Asia/Kolkata")},
	}}
}

func TestCreateSlotsConvertsWallClockToUTC(t *testing.T) {
	repo := &mockSlotRepo{}
	courses := &mockCourseReader{byTeacher: []models.Course{{ID: 9, Title: "Spoken English"}}}
	svc := NewSlotService(repo, kolkataTeacher(), courses, nil, nil, nil)

	count, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 3,
		Slots: []SlotEntry{
			{StartTime: "2025-06-01T10:00", EndTime: "2025-06-01T11:00"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, repo.inserted, 1)

	slot := repo.inserted[0]
	require.Equal(t, time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC), slot.StartTime)
	require.Equal(t, time.Date(2025, 6, 1, 5, 30, 0, 0, time.UTC), slot.EndTime)
	require.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), slot.SlotDate)
	require.Equal(t, 1, slot.Capacity)
	require.Equal(t, models.SlotStatusOpen, slot.Status)
	require.NotNil(t, slot.CourseID)
	require.Equal(t, int64(9), *slot.CourseID)
}

func TestCreateSlotsTeacherNotFound(t *testing.T) {
	svc := NewSlotService(&mockSlotRepo{}, &mockTeacherReader{}, &mockCourseReader{}, nil, nil, nil)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 99,
		Slots:     []SlotEntry{{StartTime: "2025-06-01T10:00", EndTime: "2025-06-01T11:00"}},
	})
	require.Error(t, err)
	require.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCreateSlotsTeacherWithoutZone(t *testing.T) {
	teachers := &mockTeacherReader{items: map[int64]*models.Teacher{3: {ID: 3, FullName: "Priya Sharma"}}}
	svc := NewSlotService(&mockSlotRepo{}, teachers, &mockCourseReader{}, nil, nil, nil)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 3,
		Slots:     []SlotEntry{{StartTime: "2025-06-01T10:00", EndTime: "2025-06-01T11:00"}},
	})
	require.Error(t, err)
	require.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCreateSlotsRejectsInvertedWindow(t *testing.T) {
	courses := &mockCourseReader{byTeacher: []models.Course{{ID: 9}}}
	svc := NewSlotService(&mockSlotRepo{}, kolkataTeacher(), courses, nil, nil, nil)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 3,
		Slots:     []SlotEntry{{StartTime: "2025-06-01T11:00", EndTime: "2025-06-01T10:00"}},
	})
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestCreateSlotsRejectsUnparsableTime(t *testing.T) {
	courses := &mockCourseReader{byTeacher: []models.Course{{ID: 9}}}
	repo := &mockSlotRepo{}
	svc := NewSlotService(repo, kolkataTeacher(), courses, nil, nil, nil)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 3,
		Slots: []SlotEntry{
			{StartTime: "2025-06-01T10:00", EndTime: "2025-06-01T11:00"},
			{StartTime: "tomorrow-ish", EndTime: "2025-06-01T12:00"},
		},
	})
	require.Error(t, err)
	require.Empty(t, repo.inserted)
}

func TestCreateSlotsCourseMismatch(t *testing.T) {
	courses := &mockCourseReader{byTeacher: []models.Course{{ID: 9}}}
	svc := NewSlotService(&mockSlotRepo{}, kolkataTeacher(), courses, nil, nil, nil)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 3,
		Slots:     []SlotEntry{{StartTime: "2025-06-01T10:00", EndTime: "2025-06-01T11:00", CourseID: 11}},
	})
	require.Error(t, err)
	require.Equal(t, "INVALID_STATE", appErrors.FromError(err).Code)
}

func TestCreateSlotsCourseRequiredWhenAmbiguous(t *testing.T) {
	courses := &mockCourseReader{byTeacher: []models.Course{{ID: 9}, {ID: 11}}}
	svc := NewSlotService(&mockSlotRepo{}, kolkataTeacher(), courses, nil, nil, nil)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 3,
		Slots:     []SlotEntry{{StartTime: "2025-06-01T10:00", EndTime: "2025-06-01T11:00"}},
	})
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestCreateSlotsExplicitCourseWhenAmbiguous(t *testing.T) {
	repo := &mockSlotRepo{}
	courses := &mockCourseReader{byTeacher: []models.Course{{ID: 9}, {ID: 11}}}
	svc := NewSlotService(repo, kolkataTeacher(), courses, nil, nil, nil)

	count, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{
		TeacherID: 3,
		Slots:     []SlotEntry{{StartTime: "2025-06-01T10:00", EndTime: "2025-06-01T11:00", CourseID: 11}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, int64(11), *repo.inserted[0].CourseID)
}

func TestCreateSlotsValidatesBatchShape(t *testing.T) {
	svc := NewSlotService(&mockSlotRepo{}, kolkataTeacher(), &mockCourseReader{}, nil, nil, nil)

	_, err := svc.CreateSlots(context.Background(), CreateSlotsRequest{TeacherID: 3})
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestPurgeExpired(t *testing.T) {
	repo := &mockSlotRepo{purgeDeleted: 4}
	svc := NewSlotService(repo, kolkataTeacher(), &mockCourseReader{}, nil, nil, nil)

	deleted, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), deleted)
}
