package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DavonGT/AttendMe/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollments.
// Exists is the enrollment gate: it answers whether a student may be marked
// for a class.
type EnrollmentRepository interface {
	Exists(ctx context.Context, studentID, classID uint) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, studentID, classID uint) error
	ListClassesByStudent(ctx context.Context, studentID uint) ([]models.Class, error)
	CountDistinctStudentsByTeacher(ctx context.Context, teacherID uint) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Exists(ctx context.Context, studentID, classID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Create is idempotent: enrolling an already-enrolled student is a no-op
// thanks to the conflict clause on the (student, class) unique index.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(enrollment).Error
}

func (r *enrollmentRepository) Delete(ctx context.Context, studentID, classID uint) error {
	return r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Delete(&models.Enrollment{}).Error
}

func (r *enrollmentRepository) ListClassesByStudent(ctx context.Context, studentID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.class_id = classes.id").
		Where("enrollments.student_id = ?", studentID).
		Order("classes.start_time ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *enrollmentRepository) CountDistinctStudentsByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Joins("JOIN classes ON classes.id = enrollments.class_id").
		Where("classes.teacher_id = ?", teacherID).
		Distinct("enrollments.student_id").
		Count(&count).Error
	return count, err
}
