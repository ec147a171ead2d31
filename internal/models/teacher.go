package models

import (
	"strings"
	"time"
)

// Teacher links an identity account to a teaching profile.
type Teacher struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName  string    `gorm:"size:30" json:"first_name"`
	MiddleName string    `gorm:"size:30" json:"middle_name,omitempty"`
	LastName   string    `gorm:"size:30" json:"last_name"`
	EmployeeID string    `gorm:"size:20;uniqueIndex" json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FullName joins the name parts, abbreviating the middle name to an initial.
func (t Teacher) FullName() string {
	return joinNameParts(t.FirstName, t.MiddleName, t.LastName)
}

func joinNameParts(first, middle, last string) string {
	parts := make([]string, 0, 3)
	if first != "" {
		parts = append(parts, first)
	}
	if middle != "" {
		parts = append(parts, middle[:1])
	}
	if last != "" {
		parts = append(parts, last)
	}
	return strings.Join(parts, " ")
}
