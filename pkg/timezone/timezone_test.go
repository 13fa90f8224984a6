package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToUTCBareWallClock(t *testing.T) {
	got, err := ToUTC("2025-06-01T10:00", "Asia/Kolkata")
	require.NoError(t, err)
	// 10:00 IST is 04:30 UTC.
	require.Equal(t, time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC), got)
}

func TestToUTCExplicitOffsetIgnoresZone(t *testing.T) {
	got, err := ToUTC("2025-06-01T10:00:00+02:00", "Asia/Kolkata")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), got)
}

func TestToUTCRoundTripDisplay(t *testing.T) {
	instant, err := ToUTC("2025-06-01T10:00", "Asia/Kolkata")
	require.NoError(t, err)

	display, err := LocalDisplay(instant, "Asia/Kolkata")
	require.NoError(t, err)
	require.Equal(t, "2025-06-01 10:00", display)
}

func TestToUTCEmptyZoneDefaultsToUTC(t *testing.T) {
	got, err := ToUTC("2025-06-01 10:00", "")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), got)
}

func TestToUTCRejectsGarbage(t *testing.T) {
	_, err := ToUTC("not-a-time", "UTC")
	require.Error(t, err)

	_, err = ToUTC("", "UTC")
	require.Error(t, err)

	_, err = ToUTC("2025-06-01T10:00", "Not/AZone")
	require.Error(t, err)
}

func TestHasExplicitOffset(t *testing.T) {
	require.True(t, HasExplicitOffset("2025-06-01T10:00:00Z"))
	require.True(t, HasExplicitOffset("2025-06-01T10:00+05:30"))
	require.False(t, HasExplicitOffset("2025-06-01T10:00"))
	require.False(t, HasExplicitOffset("2025-06-01"))
}

func TestLocalDayBounds(t *testing.T) {
	start, end, err := LocalDayBounds("2025-06-01", "Asia/Kolkata")
	require.NoError(t, err)
	// Local midnight IST is 18:30 UTC the previous day.
	require.Equal(t, time.Date(2025, 5, 31, 18, 30, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC).Add(-time.Nanosecond), end)

	_, _, err = LocalDayBounds("June 1st", "Asia/Kolkata")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate("Europe/Berlin"))
	require.NoError(t, Validate(""))
	require.NoError(t, Validate("utc"))
	require.Error(t, Validate("Mars/Olympus"))
}
