package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/DavonGT/AttendMe/internal/models"
)

func dashboardFixture(t *testing.T) (*memClassRepo, *memEnrollmentRepo, *memAttendanceRepo) {
	t.Helper()
	classes := newMemClassRepo()
	enrollments := newMemEnrollmentRepo(classes)
	attendance := newMemAttendanceRepo()

	start, _ := models.ParseTimeOfDay("09:00")
	end, _ := models.ParseTimeOfDay("10:00")
	class := models.Class{Name: "Physics", TeacherID: 1, StartTime: start, EndTime: end}
	require.NoError(t, classes.Create(context.Background(), &class))
	require.NoError(t, enrollments.Create(context.Background(), &models.Enrollment{StudentID: 10, ClassID: class.ID}))

	return classes, enrollments, attendance
}

func TestStudentDashboardDefaultsToFullAttendance(t *testing.T) {
	classes, enrollments, attendance := dashboardFixture(t)
	svc := NewStudentDashboardService(classes, enrollments, attendance, nil, time.Minute, testLogger())

	dashboard, err := svc.GetDashboard(context.Background(), 10, during(9, 30))
	require.NoError(t, err)
	require.Len(t, dashboard.EnrolledClasses, 1)
	require.Len(t, dashboard.CurrentClasses, 1)
	require.Equal(t, float64(100), dashboard.Attendance.Percent, "no records yet defaults to 100")
}

func TestStudentDashboardComputesPercent(t *testing.T) {
	classes, enrollments, attendance := dashboardFixture(t)
	svc := NewStudentDashboardService(classes, enrollments, attendance, nil, time.Minute, testLogger())

	base := during(9, 30)
	for day, status := range map[int]models.AttendanceStatus{
		0: models.StatusPresent,
		1: models.StatusPresent,
		2: models.StatusAbsent,
	} {
		moment := base.AddDate(0, 0, day)
		_, err := attendance.Upsert(context.Background(), &models.Attendance{
			StudentID: 10, ClassID: 1, Date: models.DateOf(moment), Status: status, Timestamp: moment,
		})
		require.NoError(t, err)
	}

	dashboard, err := svc.GetDashboard(context.Background(), 10, during(9, 30))
	require.NoError(t, err)
	require.Equal(t, int64(3), dashboard.Attendance.TotalRecords)
	require.Equal(t, int64(2), dashboard.Attendance.PresentCount)
	require.InDelta(t, 66.67, dashboard.Attendance.Percent, 0.01)
}

func TestStudentDashboardServedFromCache(t *testing.T) {
	classes, enrollments, attendance := dashboardFixture(t)

	mini := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	svc := NewStudentDashboardService(classes, enrollments, attendance, cache, time.Minute, testLogger())

	first, err := svc.GetDashboard(context.Background(), 10, during(9, 30))
	require.NoError(t, err)
	require.Equal(t, int64(0), first.Attendance.TotalRecords)

	// New data after caching must not appear until the TTL expires.
	moment := during(9, 31)
	_, err = attendance.Upsert(context.Background(), &models.Attendance{
		StudentID: 10, ClassID: 1, Date: models.DateOf(moment), Status: models.StatusPresent, Timestamp: moment,
	})
	require.NoError(t, err)

	second, err := svc.GetDashboard(context.Background(), 10, during(9, 32))
	require.NoError(t, err)
	require.Equal(t, int64(0), second.Attendance.TotalRecords, "served from cache")

	mini.FastForward(2 * time.Minute)

	third, err := svc.GetDashboard(context.Background(), 10, during(9, 33))
	require.NoError(t, err)
	require.Equal(t, int64(1), third.Attendance.TotalRecords, "cache expired, fresh aggregate")
}
