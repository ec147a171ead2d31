package dto

import "github.com/DavonGT/AttendMe/internal/models"

// EnrollRequest names the student to enroll in a class.
type EnrollRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// StudentSummary is the roster representation of a student.
type StudentSummary struct {
	ID         uint   `json:"id"`
	StudentID  string `json:"student_id"`
	FullName   string `json:"full_name"`
}

// NewStudentSummary maps a student model to its roster shape.
func NewStudentSummary(student models.Student) StudentSummary {
	return StudentSummary{
		ID:        student.ID,
		StudentID: student.StudentID,
		FullName:  student.FullName(),
	}
}

// NewStudentSummarySlice maps a slice of students.
func NewStudentSummarySlice(students []models.Student) []StudentSummary {
	out := make([]StudentSummary, 0, len(students))
	for _, student := range students {
		out = append(out, NewStudentSummary(student))
	}
	return out
}

// EnrollmentListResponse splits students by enrollment for the roster screen.
type EnrollmentListResponse struct {
	ClassID    uint             `json:"class_id"`
	Enrolled   []StudentSummary `json:"enrolled"`
	Unenrolled []StudentSummary `json:"unenrolled"`
}
