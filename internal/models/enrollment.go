package models

import "time"

// Enrollment permits a student to be marked for a class. At most one
// enrollment exists per (student, class) pair.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_class" json:"student_id"`
	Student   Student   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ClassID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_class" json:"class_id"`
	Class     Class     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
