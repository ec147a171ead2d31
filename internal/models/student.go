package models

import "time"

// Student links an identity account to a learner profile. StudentID is the
// external identifier printed on ID cards and read by the barcode scanner.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName  string    `gorm:"size:30" json:"first_name"`
	MiddleName string    `gorm:"size:30" json:"middle_name,omitempty"`
	LastName   string    `gorm:"size:30" json:"last_name"`
	StudentID  string    `gorm:"size:20;uniqueIndex" json:"student_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FullName joins the name parts, abbreviating the middle name to an initial.
func (s Student) FullName() string {
	return joinNameParts(s.FirstName, s.MiddleName, s.LastName)
}
