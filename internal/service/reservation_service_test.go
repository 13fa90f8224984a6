package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edulane/slotbook-api/internal/models"
	"github.com/edulane/slotbook-api/internal/repository"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
)

type mockReservationRepo struct {
	result    *models.ReservationResult
	err       error
	gotSlotID int64
	gotUserID int64
	gotQuota  int
	deadline  bool
}

func (m *mockReservationRepo) ReserveDemo(ctx context.Context, slotID, userID, courseID int64, demoQuota int) (*models.ReservationResult, error) {
	m.gotSlotID = slotID
	m.gotUserID = userID
	m.gotQuota = demoQuota
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockSlotHolder struct {
	gotSlotID int64
	gotUserID int64
	called    bool
	err       error
}

func (m *mockSlotHolder) SoftHold(ctx context.Context, slotID, userID int64) error {
	m.called = true
	m.gotSlotID = slotID
	m.gotUserID = userID
	return m.err
}

func newReservationService(repo *mockReservationRepo) *ReservationService {
	return NewReservationService(repo, nil, nil, nil, nil, nil, 5, 10*time.Second)
}

func TestReserveHappyPath(t *testing.T) {
	repo := &mockReservationRepo{result: &models.ReservationResult{
		Enrollment:    models.Enrollment{ID: 201, UserID: 42, CourseID: 9, IsActive: true},
		Session:       models.Session{ID: 101},
		ReservedCount: 1,
	}}
	svc := newReservationService(repo)

	result, err := svc.Reserve(context.Background(), 7, ReserveDemoRequest{UserID: 42, CourseID: 9})
	require.NoError(t, err)
	require.Equal(t, int64(201), result.Enrollment.ID)
	require.Equal(t, int64(7), repo.gotSlotID)
	require.Equal(t, 5, repo.gotQuota)
	require.True(t, repo.deadline, "reservation must run under a bounded deadline")
}

func TestReserveRecordsHoldMarker(t *testing.T) {
	repo := &mockReservationRepo{result: &models.ReservationResult{
		Enrollment:    models.Enrollment{ID: 201, UserID: 42, CourseID: 9, IsActive: true},
		Session:       models.Session{ID: 101},
		ReservedCount: 1,
	}}
	holder := &mockSlotHolder{}
	svc := NewReservationService(repo, holder, nil, nil, nil, nil, 5, 10*time.Second)

	_, err := svc.Reserve(context.Background(), 7, ReserveDemoRequest{UserID: 42, CourseID: 9})
	require.NoError(t, err)
	require.True(t, holder.called)
	require.Equal(t, int64(7), holder.gotSlotID)
	require.Equal(t, int64(42), holder.gotUserID)
}

func TestReserveHoldMarkerFailureIsNotSurfaced(t *testing.T) {
	repo := &mockReservationRepo{result: &models.ReservationResult{
		Enrollment:    models.Enrollment{ID: 201, UserID: 42, CourseID: 9, IsActive: true},
		Session:       models.Session{ID: 101},
		ReservedCount: 1,
	}}
	holder := &mockSlotHolder{err: errors.New("connection reset")}
	svc := NewReservationService(repo, holder, nil, nil, nil, nil, 5, 10*time.Second)

	result, err := svc.Reserve(context.Background(), 7, ReserveDemoRequest{UserID: 42, CourseID: 9})
	require.NoError(t, err)
	require.Equal(t, int64(201), result.Enrollment.ID)
}

func TestReserveFailureSkipsHoldMarker(t *testing.T) {
	holder := &mockSlotHolder{}
	svc := NewReservationService(&mockReservationRepo{err: repository.ErrSlotFull}, holder, nil, nil, nil, nil, 5, 10*time.Second)

	_, err := svc.Reserve(context.Background(), 7, ReserveDemoRequest{UserID: 42, CourseID: 9})
	require.Error(t, err)
	require.False(t, holder.called)
}

func TestReserveRejectsInvalidSlotID(t *testing.T) {
	svc := newReservationService(&mockReservationRepo{})

	_, err := svc.Reserve(context.Background(), 0, ReserveDemoRequest{UserID: 42, CourseID: 9})
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestReserveRejectsMissingFields(t *testing.T) {
	svc := newReservationService(&mockReservationRepo{})

	_, err := svc.Reserve(context.Background(), 7, ReserveDemoRequest{UserID: 42})
	require.Error(t, err)
	require.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestReserveErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		repoErr error
		status  int
		message string
	}{
		{"not found", repository.ErrSlotNotFound, 404, "Slot not found."},
		{"not open", repository.ErrSlotNotOpen, 400, "Slot is not open for booking."},
		{"course mismatch", repository.ErrCourseMismatch, 400, "Slot does not belong to this course."},
		{"past slot", repository.ErrSlotInPast, 400, "Cannot book a past slot."},
		{"full", repository.ErrSlotFull, 400, "Slot is full."},
		{"quota", repository.ErrQuotaReached, 400, "Demo session limit reached for this course."},
		{"course missing", repository.ErrCourseNotFound, 404, "Course not found."},
		{"unexpected", errors.New("connection reset"), 500, "reservation failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newReservationService(&mockReservationRepo{err: tc.repoErr})

			_, err := svc.Reserve(context.Background(), 7, ReserveDemoRequest{UserID: 42, CourseID: 9})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			require.Equal(t, tc.status, appErr.Status)
			require.Equal(t, tc.message, appErr.Message)
		})
	}
}
