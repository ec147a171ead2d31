package models

import (
	"strings"
	"time"
)

// AttendanceStatus is the stored single-character attendance state.
type AttendanceStatus string

// Recognized attendance statuses.
const (
	StatusPresent AttendanceStatus = "P"
	StatusAbsent  AttendanceStatus = "A"
	StatusLate    AttendanceStatus = "L"
)

// Known reports whether the status is one of the recognized values.
func (s AttendanceStatus) Known() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	default:
		return false
	}
}

// Label returns the human-readable form used in API responses.
func (s AttendanceStatus) Label() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusAbsent:
		return "absent"
	case StatusLate:
		return "late"
	default:
		return string(s)
	}
}

// ParseStatus maps an API status string onto a stored status. It accepts the
// long labels and the single-character stored values, case-insensitively.
func ParseStatus(value string) (AttendanceStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "present", "p":
		return StatusPresent, true
	case "absent", "a":
		return StatusAbsent, true
	case "late", "l":
		return StatusLate, true
	default:
		return "", false
	}
}

// Attendance records one student's state for one class on one day. The
// composite unique index is the consistency guarantee: duplicate marks for
// the same (student, class, date) collapse into an update of the same row.
type Attendance struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	StudentID uint             `gorm:"not null;uniqueIndex:idx_attendance_student_class_date" json:"student_id"`
	Student   Student          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ClassID   uint             `gorm:"not null;uniqueIndex:idx_attendance_student_class_date" json:"class_id"`
	Class     Class            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date      time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_student_class_date" json:"date"`
	Status    AttendanceStatus `gorm:"size:1;not null" json:"status"`
	Timestamp time.Time        `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// DateOf truncates an instant to the date used for the attendance uniqueness
// key. The date is always derived server-side from the moment of the call,
// never supplied by a client, which rules out backdating.
func DateOf(at time.Time) time.Time {
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}
