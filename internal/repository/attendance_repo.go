package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DavonGT/AttendMe/internal/models"
)

// AttendanceRepository defines persistence operations for attendance records.
type AttendanceRepository interface {
	Upsert(ctx context.Context, record *models.Attendance) (created bool, err error)
	ListForClass(ctx context.Context, classID uint, date *time.Time) ([]models.Attendance, error)
	DistinctDates(ctx context.Context, classID uint) ([]time.Time, error)
	ListForStudentClass(ctx context.Context, studentID, classID uint) ([]models.Attendance, error)
	StatusesForDate(ctx context.Context, classID uint, date time.Time) (map[uint]models.AttendanceStatus, error)
	CountByStudent(ctx context.Context, studentID uint) (total int64, present int64, err error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert writes the unique (student, class, date) record in a single
// insert-or-update statement. The conflict clause is what makes concurrent
// marks for the same key safe: the unique index absorbs the race and the
// last write wins. The preceding lookup only decides the created/updated
// flag for caller messaging and plays no part in correctness.
func (r *attendanceRepository) Upsert(ctx context.Context, record *models.Attendance) (bool, error) {
	var existing models.Attendance
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ? AND date = ?", record.StudentID, record.ClassID, record.Date).
		Take(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return false, err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "class_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     record.Status,
				"timestamp":  record.Timestamp,
				"updated_at": record.Timestamp,
			}),
		}).
		Create(record).Error
	if err != nil {
		return false, err
	}

	return created, nil
}

func (r *attendanceRepository) ListForClass(ctx context.Context, classID uint, date *time.Time) ([]models.Attendance, error) {
	query := r.db.WithContext(ctx).
		Preload("Student").
		Where("class_id = ?", classID)

	if date != nil {
		query = query.Where("date = ?", models.DateOf(*date))
	}

	var records []models.Attendance
	if err := query.Order("date DESC, student_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) DistinctDates(ctx context.Context, classID uint) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("class_id = ?", classID).
		Distinct("date").
		Order("date DESC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}

	return dates, nil
}

func (r *attendanceRepository) ListForStudentClass(ctx context.Context, studentID, classID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) StatusesForDate(ctx context.Context, classID uint, date time.Time) (map[uint]models.AttendanceStatus, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Select("student_id", "status").
		Where("class_id = ? AND date = ?", classID, models.DateOf(date)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	statuses := make(map[uint]models.AttendanceStatus, len(records))
	for _, record := range records {
		statuses[record.StudentID] = record.Status
	}

	return statuses, nil
}

func (r *attendanceRepository) CountByStudent(ctx context.Context, studentID uint) (int64, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ?", studentID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	var present int64
	err = r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ? AND status = ?", studentID, models.StatusPresent).
		Count(&present).Error
	if err != nil {
		return 0, 0, err
	}

	return total, present, nil
}
