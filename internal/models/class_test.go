package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func classWithWindow(start, end string) Class {
	startTime, _ := ParseTimeOfDay(start)
	endTime, _ := ParseTimeOfDay(end)
	return Class{Name: "Physics 101", StartTime: startTime, EndTime: endTime}
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, time.March, 9, hour, minute, second, 0, time.UTC)
}

func TestClassIsActiveAtInclusiveBounds(t *testing.T) {
	class := classWithWindow("09:00", "10:00")

	require.True(t, class.IsActiveAt(at(9, 0, 0)), "window opens at exactly 09:00:00")
	require.True(t, class.IsActiveAt(at(10, 0, 0)), "window closes at exactly 10:00:00")
	require.True(t, class.IsActiveAt(at(9, 30, 15)))
	require.False(t, class.IsActiveAt(at(8, 59, 59)))
	require.False(t, class.IsActiveAt(at(10, 0, 1)))
}

func TestClassIsActiveAtIgnoresDate(t *testing.T) {
	class := classWithWindow("09:00", "10:00")

	tomorrow := at(9, 30, 0).AddDate(0, 0, 1)
	require.True(t, class.IsActiveAt(tomorrow), "window recurs daily")
}

func TestClassWithInvertedWindowIsNeverActive(t *testing.T) {
	class := classWithWindow("22:00", "02:00")

	for hour := 0; hour < 24; hour++ {
		require.False(t, class.IsActiveAt(at(hour, 0, 0)), "inverted window must stay closed at %02d:00", hour)
	}
}

func TestClassStartsAfter(t *testing.T) {
	class := classWithWindow("09:00", "10:00")

	require.True(t, class.StartsAfter(at(8, 0, 0)))
	require.False(t, class.StartsAfter(at(9, 0, 0)))
	require.False(t, class.StartsAfter(at(11, 0, 0)))
}

func TestParseTimeOfDay(t *testing.T) {
	parsed, err := ParseTimeOfDay("14:05")
	require.NoError(t, err)
	require.Equal(t, 14, parsed.Hour)
	require.Equal(t, 5, parsed.Minute)
	require.Equal(t, "14:05", parsed.String())

	_, err = ParseTimeOfDay("25:00")
	require.Error(t, err)

	_, err = ParseTimeOfDay("9am")
	require.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	for input, want := range map[string]AttendanceStatus{
		"present": StatusPresent,
		"P":       StatusPresent,
		"Absent":  StatusAbsent,
		"l":       StatusLate,
	} {
		status, ok := ParseStatus(input)
		require.True(t, ok, input)
		require.Equal(t, want, status)
	}

	_, ok := ParseStatus("excused")
	require.False(t, ok)
}

func TestDateOfTruncatesToDay(t *testing.T) {
	moment := time.Date(2026, time.March, 9, 9, 45, 12, 99, time.UTC)
	date := DateOf(moment)
	require.Equal(t, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), date)
}
