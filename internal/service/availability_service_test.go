package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edulane/slotbook-api/internal/models"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
)

type mockEnrollmentCounter struct {
	counts map[int64]int
	err    error
}

func (m *mockEnrollmentCounter) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[slotID], nil
}

func openSlot(id int64, capacity int) models.Slot {
	start := time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC)
	return models.Slot{
		ID:        id,
		TeacherID: 3,
		SlotDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Capacity:  capacity,
		Status:    models.SlotStatusOpen,
	}
}

func TestListSlotsProjectsAvailability(t *testing.T) {
	slots := &mockSlotRepo{listResult: []models.Slot{openSlot(1, 2), openSlot(2, 1)}, listTotal: 2}
	counts := &mockEnrollmentCounter{counts: map[int64]int{1: 1, 2: 1}}
	svc := NewAvailabilityService(slots, counts, kolkataTeacher(), nil, nil, nil, false)

	items, total, err := svc.ListSlots(context.Background(), AvailabilityQuery{Timezone: "Asia/Kolkata"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, items, 2)

	require.True(t, items[0].IsAvailable)
	require.Equal(t, 1, items[0].ReservedCount)
	require.Equal(t, "2025-06-01 10:00", items[0].LocalStartTime)
	require.Equal(t, "2025-06-01 11:00", items[0].LocalEndTime)
	require.Equal(t, "Asia/Kolkata", items[0].Timezone)

	// Fully reserved slot stays listed but is flagged unavailable.
	require.False(t, items[1].IsAvailable)
}

func TestListSlotsFallsBackToTeacherZone(t *testing.T) {
	slots := &mockSlotRepo{listResult: []models.Slot{openSlot(1, 1)}, listTotal: 1}
	counts := &mockEnrollmentCounter{}
	svc := NewAvailabilityService(slots, counts, kolkataTeacher(), nil, nil, nil, false)

	items, _, err := svc.ListSlots(context.Background(), AvailabilityQuery{TeacherID: 3})
	require.NoError(t, err)
	require.Equal(t, "Asia/Kolkata", items[0].Timezone)
	require.Equal(t, "2025-06-01 10:00", items[0].LocalStartTime)
}

func TestListSlotsDefaultsToUTCForUnknownTeacher(t *testing.T) {
	slots := &mockSlotRepo{listResult: []models.Slot{openSlot(1, 1)}, listTotal: 1}
	svc := NewAvailabilityService(slots, &mockEnrollmentCounter{}, &mockTeacherReader{}, nil, nil, nil, false)

	items, _, err := svc.ListSlots(context.Background(), AvailabilityQuery{TeacherID: 99})
	require.NoError(t, err)
	require.Equal(t, "UTC", items[0].Timezone)
	require.Equal(t, "2025-06-01 04:30", items[0].LocalStartTime)
}

func TestListSlotsRejectsUnknownTimezone(t *testing.T) {
	svc := NewAvailabilityService(&mockSlotRepo{}, &mockEnrollmentCounter{}, &mockTeacherReader{}, nil, nil, nil, false)

	_, _, err := svc.ListSlots(context.Background(), AvailabilityQuery{Timezone: "Mars/Olympus"})
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestListSlotsRejectsHalfOpenRange(t *testing.T) {
	svc := NewAvailabilityService(&mockSlotRepo{}, &mockEnrollmentCounter{}, &mockTeacherReader{}, nil, nil, nil, false)

	_, _, err := svc.ListSlots(context.Background(), AvailabilityQuery{DateFrom: "2025-06-01"})
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestBuildSlotFilterLocalDayBounds(t *testing.T) {
	filter, err := buildSlotFilter(AvailabilityQuery{DateFrom: "2025-06-01", DateTo: "2025-06-01"}, "Asia/Kolkata")
	require.NoError(t, err)
	require.True(t, filter.HasRange)
	require.Equal(t, time.Date(2025, 5, 31, 18, 30, 0, 0, time.UTC), filter.DateFrom)
	require.Equal(t, time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC).Add(-time.Nanosecond), filter.DateTo)
}

func TestBuildSlotFilterExplicitOffsetBounds(t *testing.T) {
	filter, err := buildSlotFilter(AvailabilityQuery{
		DateFrom: "2025-06-01T00:00:00+05:30",
		DateTo:   "2025-06-02T00:00:00+05:30",
	}, "UTC")
	require.NoError(t, err)
	require.True(t, filter.HasRange)
	require.Equal(t, time.Date(2025, 5, 31, 18, 30, 0, 0, time.UTC), filter.DateFrom)
	require.Equal(t, time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC), filter.DateTo)
}

func TestGetTeacherOpenSlotsForcesFilters(t *testing.T) {
	slots := &mockSlotRepo{listResult: []models.Slot{openSlot(1, 1)}, listTotal: 1}
	svc := NewAvailabilityService(slots, &mockEnrollmentCounter{}, kolkataTeacher(), nil, nil, nil, false)

	_, total, err := svc.GetTeacherOpenSlots(context.Background(), 3, AvailabilityQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, int64(3), slots.gotFilter.TeacherID)
	require.True(t, slots.gotFilter.OpenOnly)

	_, _, err = svc.GetTeacherOpenSlots(context.Background(), 0, AvailabilityQuery{})
	require.Error(t, err)
}
