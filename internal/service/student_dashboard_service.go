package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/DavonGT/AttendMe/internal/dto"
	"github.com/DavonGT/AttendMe/internal/repository"
)

// StudentDashboardService aggregates a student's enrolled classes and
// attendance performance.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, studentID uint, now time.Time) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	classes     repository.ClassRepository
	enrollments repository.EnrollmentRepository
	attendance  repository.AttendanceRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(classes repository.ClassRepository, enrollments repository.EnrollmentRepository, attendance repository.AttendanceRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		classes:     classes,
		enrollments: enrollments,
		attendance:  attendance,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, studentID uint, now time.Time) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	classes, err := s.enrollments.ListClassesByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	total, present, err := s.attendance.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := dto.StudentDashboardResponse{
		EnrolledClasses: []dto.ClassResponse{},
		CurrentClasses:  []dto.ClassResponse{},
		UpcomingClasses: []dto.ClassResponse{},
		Attendance:      attendanceSummary(total, present),
	}

	for _, class := range classes {
		count, err := s.classes.CountEnrolled(ctx, class.ID)
		if err != nil {
			return dto.StudentDashboardResponse{}, err
		}

		view := dto.NewClassResponse(class, count, now)
		response.EnrolledClasses = append(response.EnrolledClasses, view)
		switch {
		case class.IsActiveAt(now):
			response.CurrentClasses = append(response.CurrentClasses, view)
		case class.StartsAfter(now):
			response.UpcomingClasses = append(response.UpcomingClasses, view)
		}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

// attendanceSummary computes the student's present percentage. A student with
// no records yet starts at 100.
func attendanceSummary(total, present int64) dto.AttendanceSummary {
	percent := 100.0
	if total > 0 {
		percent = math.Round(float64(present)/float64(total)*10000) / 100
	}

	return dto.AttendanceSummary{
		TotalRecords: total,
		PresentCount: present,
		Percent:      percent,
	}
}
