package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DavonGT/AttendMe/internal/dto"
	"github.com/DavonGT/AttendMe/internal/models"
	"github.com/DavonGT/AttendMe/internal/repository"
)

// ErrInvalidWindow indicates a start or end time that could not be parsed.
var ErrInvalidWindow = errors.New("invalid class window")

// ClassService exposes class management and the teacher dashboard.
type ClassService interface {
	Create(ctx context.Context, teacherID uint, payload dto.ClassCreateRequest, now time.Time) (dto.ClassResponse, error)
	Update(ctx context.Context, teacherID, classID uint, payload dto.ClassUpdateRequest, now time.Time) (dto.ClassResponse, error)
	Get(ctx context.Context, teacherID, classID uint, now time.Time) (dto.ClassResponse, error)
	List(ctx context.Context, teacherID uint, now time.Time) ([]dto.ClassResponse, error)
	Dashboard(ctx context.Context, teacherID uint, now time.Time) (dto.TeacherDashboardResponse, error)
}

type classService struct {
	classes     repository.ClassRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewClassService builds a class service.
func NewClassService(classes repository.ClassRepository, enrollments repository.EnrollmentRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:     classes,
		enrollments: enrollments,
		validator:   validate,
		logger:      logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, teacherID uint, payload dto.ClassCreateRequest, now time.Time) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	start, err := models.ParseTimeOfDay(payload.StartTime)
	if err != nil {
		return dto.ClassResponse{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	end, err := models.ParseTimeOfDay(payload.EndTime)
	if err != nil {
		return dto.ClassResponse{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}

	class := models.Class{
		Name:        payload.Name,
		TeacherID:   teacherID,
		StartTime:   start,
		EndTime:     end,
		Description: payload.Description,
	}

	// A window with start after end is accepted but can never become active.
	// Surfacing it in the log is the only guard.
	if start.SecondsOfDay() > end.SecondsOfDay() {
		s.logger.Warn().
			Str("start", start.String()).
			Str("end", end.String()).
			Msg("class window starts after it ends and will never accept marks")
	}

	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("teacher_id", teacherID).Msg("class created")

	return dto.NewClassResponse(class, 0, now), nil
}

func (s *classService) Update(ctx context.Context, teacherID, classID uint, payload dto.ClassUpdateRequest, now time.Time) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.owned(ctx, teacherID, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	if payload.Name != nil {
		class.Name = *payload.Name
	}
	if payload.StartTime != nil {
		start, err := models.ParseTimeOfDay(*payload.StartTime)
		if err != nil {
			return dto.ClassResponse{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
		}
		class.StartTime = start
	}
	if payload.EndTime != nil {
		end, err := models.ParseTimeOfDay(*payload.EndTime)
		if err != nil {
			return dto.ClassResponse{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
		}
		class.EndTime = end
	}
	if payload.Description != nil {
		class.Description = *payload.Description
	}

	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	count, err := s.classes.CountEnrolled(ctx, class.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class, count, now), nil
}

func (s *classService) Get(ctx context.Context, teacherID, classID uint, now time.Time) (dto.ClassResponse, error) {
	class, err := s.owned(ctx, teacherID, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	count, err := s.classes.CountEnrolled(ctx, class.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class, count, now), nil
}

func (s *classService) List(ctx context.Context, teacherID uint, now time.Time) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return s.toResponses(ctx, classes, now)
}

// Dashboard aggregates the teacher's landing view: totals plus the split of
// classes currently in session and those still to open today.
func (s *classService) Dashboard(ctx context.Context, teacherID uint, now time.Time) (dto.TeacherDashboardResponse, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	students, err := s.enrollments.CountDistinctStudentsByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	all, err := s.toResponses(ctx, classes, now)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	response := dto.TeacherDashboardResponse{
		TotalClasses:    len(classes),
		TotalStudents:   students,
		AllClasses:      all,
		CurrentClasses:  []dto.ClassResponse{},
		UpcomingClasses: []dto.ClassResponse{},
	}

	for i, class := range classes {
		switch {
		case class.IsActiveAt(now):
			response.CurrentClasses = append(response.CurrentClasses, all[i])
		case class.StartsAfter(now):
			response.UpcomingClasses = append(response.UpcomingClasses, all[i])
		}
	}

	return response, nil
}

func (s *classService) owned(ctx context.Context, teacherID, classID uint) (models.Class, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrClassNotFound
		}
		return models.Class{}, err
	}

	if class.TeacherID != teacherID {
		return models.Class{}, ErrUnauthorized
	}

	return class, nil
}

func (s *classService) toResponses(ctx context.Context, classes []models.Class, now time.Time) ([]dto.ClassResponse, error) {
	responses := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		count, err := s.classes.CountEnrolled(ctx, class.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewClassResponse(class, count, now))
	}

	return responses, nil
}
