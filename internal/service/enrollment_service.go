package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DavonGT/AttendMe/internal/dto"
	"github.com/DavonGT/AttendMe/internal/models"
	"github.com/DavonGT/AttendMe/internal/repository"
)

// EnrollmentService manages the (student, class) enrollment relation.
type EnrollmentService interface {
	Enroll(ctx context.Context, teacherID, classID, studentID uint) (dto.StudentSummary, error)
	Unenroll(ctx context.Context, teacherID, classID, studentID uint) error
	List(ctx context.Context, teacherID, classID uint) (dto.EnrollmentListResponse, error)
}

type enrollmentService struct {
	classes     repository.ClassRepository
	students    repository.StudentRepository
	enrollments repository.EnrollmentRepository
	logger      zerolog.Logger
}

// NewEnrollmentService builds an enrollment service.
func NewEnrollmentService(classes repository.ClassRepository, students repository.StudentRepository, enrollments repository.EnrollmentRepository, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		classes:     classes,
		students:    students,
		enrollments: enrollments,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll adds a student to an owned class. Enrolling twice is a no-op.
func (s *enrollmentService) Enroll(ctx context.Context, teacherID, classID, studentID uint) (dto.StudentSummary, error) {
	if err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return dto.StudentSummary{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentSummary{}, ErrStudentNotFound
		}
		return dto.StudentSummary{}, err
	}

	enrollment := models.Enrollment{StudentID: studentID, ClassID: classID}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return dto.StudentSummary{}, err
	}

	s.logger.Info().Uint("student_id", studentID).Uint("class_id", classID).Msg("student enrolled")

	return dto.NewStudentSummary(student), nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, teacherID, classID, studentID uint) error {
	if err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return err
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := s.enrollments.Delete(ctx, studentID, classID); err != nil {
		return err
	}

	s.logger.Info().Uint("student_id", studentID).Uint("class_id", classID).Msg("student unenrolled")

	return nil
}

// List splits the student body into enrolled and unenrolled for the roster
// management screen.
func (s *enrollmentService) List(ctx context.Context, teacherID, classID uint) (dto.EnrollmentListResponse, error) {
	if err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return dto.EnrollmentListResponse{}, err
	}

	enrolled, err := s.students.ListEnrolled(ctx, classID)
	if err != nil {
		return dto.EnrollmentListResponse{}, err
	}

	unenrolled, err := s.students.ListUnenrolled(ctx, classID)
	if err != nil {
		return dto.EnrollmentListResponse{}, err
	}

	return dto.EnrollmentListResponse{
		ClassID:    classID,
		Enrolled:   dto.NewStudentSummarySlice(enrolled),
		Unenrolled: dto.NewStudentSummarySlice(unenrolled),
	}, nil
}

func (s *enrollmentService) ownedClass(ctx context.Context, teacherID, classID uint) error {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}

	if class.TeacherID != teacherID {
		return ErrUnauthorized
	}

	return nil
}
