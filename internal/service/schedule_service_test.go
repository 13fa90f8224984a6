package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edulane/slotbook-api/internal/models"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
)

type mockDemoScheduleReader struct {
	items []models.StudentScheduleItem
	err   error
}

func (m *mockDemoScheduleReader) StudentDemoSchedule(ctx context.Context, userID int64) ([]models.StudentScheduleItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func TestGetStudentDemoScheduleLocalizesSessions(t *testing.T) {
	scheduleAt := time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC)
	reader := &mockDemoScheduleReader{items: []models.StudentScheduleItem{
		{
			EnrollmentID: 201,
			CourseID:     9,
			Session:      &models.ScheduledSession{SessionID: 101, ScheduleAt: scheduleAt},
		},
		{EnrollmentID: 202, CourseID: 9},
	}}
	svc := NewScheduleService(reader, nil)

	items, err := svc.GetStudentDemoSchedule(context.Background(), 42, "Asia/Kolkata")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Asia/Kolkata", items[0].Timezone)
	require.Equal(t, "2025-06-01 10:00", items[0].Session.LocalScheduleAt)
	require.Nil(t, items[1].Session)
	require.Equal(t, "Asia/Kolkata", items[1].Timezone)
}

func TestGetStudentDemoScheduleRequiresTimezone(t *testing.T) {
	svc := NewScheduleService(&mockDemoScheduleReader{}, nil)

	_, err := svc.GetStudentDemoSchedule(context.Background(), 42, "")
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestGetStudentDemoScheduleRejectsUnknownZone(t *testing.T) {
	svc := NewScheduleService(&mockDemoScheduleReader{}, nil)

	_, err := svc.GetStudentDemoSchedule(context.Background(), 42, "Mars/Olympus")
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestGetStudentDemoScheduleRejectsInvalidUser(t *testing.T) {
	svc := NewScheduleService(&mockDemoScheduleReader{}, nil)

	_, err := svc.GetStudentDemoSchedule(context.Background(), 0, "UTC")
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}
