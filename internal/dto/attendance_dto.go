package dto

import (
	"time"

	"github.com/DavonGT/AttendMe/internal/models"
)

// BulkAttendanceRequest is the manual marking form: one status per student
// for a single class. The class and date are bound to the request, never
// supplied per entry.
type BulkAttendanceRequest struct {
	Entries []BulkAttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// BulkAttendanceEntry is one (student, status) pair within a bulk submission.
type BulkAttendanceEntry struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// BulkAttendanceResponse reports the best-effort outcome of a bulk submission.
type BulkAttendanceResponse struct {
	Marked  int       `json:"marked"`
	Skipped int       `json:"skipped"`
	Date    time.Time `json:"date"`
}

// ScanRequest is a single barcode scan event. StudentID is the external
// identifier printed on the student's card, not a database key.
type ScanRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ClassID   uint   `json:"class_id" validate:"required"`
}

// ScanResponse mirrors the scanner UI contract: one scan, one message.
type ScanResponse struct {
	StudentName   string `json:"student_name"`
	Status        string `json:"status"`
	AlreadyMarked bool   `json:"already_marked"`
}

// AttendanceRecordResponse is one row of an attendance history listing.
type AttendanceRecordResponse struct {
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	ClassID     uint      `json:"class_id"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewAttendanceRecordResponse maps an attendance model to its API shape.
func NewAttendanceRecordResponse(record models.Attendance) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		StudentID:   record.StudentID,
		StudentName: record.Student.FullName(),
		ClassID:     record.ClassID,
		Date:        record.Date.Format("2006-01-02"),
		Status:      record.Status.Label(),
		Timestamp:   record.Timestamp,
	}
}

// ClassHistoryResponse is the teacher-facing history listing with the
// distinct dates available for filtering.
type ClassHistoryResponse struct {
	Records []AttendanceRecordResponse `json:"records"`
	Dates   []string                   `json:"dates"`
}

// RosterEntry is one enrolled student with today's status, defaulting to
// absent when no record exists yet.
type RosterEntry struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
}

// RosterResponse prefills the manual marking screen.
type RosterResponse struct {
	ClassID  uint          `json:"class_id"`
	Active   bool          `json:"active"`
	Date     string        `json:"date"`
	Students []RosterEntry `json:"students"`
}
