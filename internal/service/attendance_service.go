package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DavonGT/AttendMe/internal/dto"
	"github.com/DavonGT/AttendMe/internal/events"
	"github.com/DavonGT/AttendMe/internal/models"
	"github.com/DavonGT/AttendMe/internal/observability"
	"github.com/DavonGT/AttendMe/internal/repository"
)

// Decision outcomes of the attendance recorder. These are recoverable
// rejections, not failures: handlers map them to client-facing responses.
var (
	// ErrClassNotFound indicates the referenced class does not exist.
	ErrClassNotFound = errors.New("class not found")
	// ErrUnauthorized indicates the acting teacher does not own the class.
	ErrUnauthorized = errors.New("teacher does not own this class")
	// ErrWindowClosed indicates the class is outside its daily attendance window.
	ErrWindowClosed = errors.New("attendance window is closed")
	// ErrNotEnrolled indicates the student has no enrollment for the class.
	ErrNotEnrolled = errors.New("student is not enrolled in this class")
	// ErrInvalidStatus indicates an unrecognized attendance status value.
	ErrInvalidStatus = errors.New("unrecognized attendance status")
	// ErrStudentNotFound indicates an external student identifier did not resolve.
	ErrStudentNotFound = errors.New("student not found")
)

// RecordCommand is a single attendance mark. At is the injected clock value:
// both the window check and the date key derive from it, never from a
// caller-supplied date.
type RecordCommand struct {
	ActorTeacherID uint
	StudentID      uint
	ClassID        uint
	Status         models.AttendanceStatus
	At             time.Time
}

// RecordResult reports whether the mark created a new record or overwrote
// today's existing one.
type RecordResult struct {
	Created bool
	Status  models.AttendanceStatus
}

// BatchEntry is one (student, status) pair of a bulk form submission.
type BatchEntry struct {
	StudentID uint
	Status    string
}

// BatchCommand is a bulk form submission for one class.
type BatchCommand struct {
	ActorTeacherID uint
	ClassID        uint
	Entries        []BatchEntry
	At             time.Time
}

// BatchResult reports the best-effort outcome of a bulk submission.
type BatchResult struct {
	Marked  int
	Skipped int
	Date    time.Time
}

// ScanCommand is one barcode scan event. StudentCode is the external
// identifier on the student's card.
type ScanCommand struct {
	ActorTeacherID uint
	StudentCode    string
	ClassID        uint
	At             time.Time
}

// ScanResult carries what the scanner UI needs for its one-line response.
type ScanResult struct {
	Created bool
	Student models.Student
	Status  models.AttendanceStatus
}

// AttendanceService is the attendance recording engine and its read side.
type AttendanceService interface {
	Record(ctx context.Context, cmd RecordCommand) (RecordResult, error)
	RecordBatch(ctx context.Context, cmd BatchCommand) (BatchResult, error)
	RecordScan(ctx context.Context, cmd ScanCommand) (ScanResult, error)
	Roster(ctx context.Context, teacherID, classID uint, at time.Time) (dto.RosterResponse, error)
	ClassHistory(ctx context.Context, teacherID, classID uint, date *time.Time) (dto.ClassHistoryResponse, error)
	StudentHistory(ctx context.Context, studentID, classID uint) ([]dto.AttendanceRecordResponse, error)
}

type attendanceService struct {
	classes     repository.ClassRepository
	students    repository.StudentRepository
	enrollments repository.EnrollmentRepository
	attendance  repository.AttendanceRepository
	publisher   events.Publisher
	logger      zerolog.Logger
}

// NewAttendanceService builds the attendance recording engine.
func NewAttendanceService(
	classes repository.ClassRepository,
	students repository.StudentRepository,
	enrollments repository.EnrollmentRepository,
	attendance repository.AttendanceRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) AttendanceService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}

	return &attendanceService{
		classes:     classes,
		students:    students,
		enrollments: enrollments,
		attendance:  attendance,
		publisher:   publisher,
		logger:      logger.With().Str("component", "attendance_service").Logger(),
	}
}

// authorizeClass loads the class and verifies ownership. Ownership is the
// first precondition of every write path: it runs before the window and
// enrollment checks.
func (s *attendanceService) authorizeClass(ctx context.Context, classID, teacherID uint) (models.Class, error) {
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

// Record validates ownership, window, enrollment and status in that order,
// then upserts the unique (student, class, date) record. The window is
// re-checked here on every call: it may have closed between the client
// rendering an "active" indicator and the submission arriving.
func (s *attendanceService) Record(ctx context.Context, cmd RecordCommand) (RecordResult, error) {
	class, err := s.authorizeClass(ctx, cmd.ClassID, cmd.ActorTeacherID)
	if err != nil {
		return RecordResult{}, err
	}

	if !class.IsActiveAt(cmd.At) {
		return RecordResult{}, ErrWindowClosed
	}

	return s.write(ctx, class, cmd.StudentID, cmd.Status, cmd.At, "single")
}

// write is the shared tail of every entry point: enrollment gate, status
// check, atomic upsert. Callers have already verified ownership and window.
func (s *attendanceService) write(ctx context.Context, class models.Class, studentID uint, status models.AttendanceStatus, at time.Time, source string) (RecordResult, error) {
	enrolled, err := s.enrollments.Exists(ctx, studentID, class.ID)
	if err != nil {
		return RecordResult{}, err
	}
	if !enrolled {
		return RecordResult{}, ErrNotEnrolled
	}

	if !status.Known() {
		return RecordResult{}, ErrInvalidStatus
	}

	record := models.Attendance{
		StudentID: studentID,
		ClassID:   class.ID,
		Date:      models.DateOf(at),
		Status:    status,
		Timestamp: at,
	}

	created, err := s.attendance.Upsert(ctx, &record)
	if err != nil {
		return RecordResult{}, err
	}

	observability.AttendanceMarks().WithLabelValues(source, status.Label()).Inc()
	s.publisher.PublishAttendanceMarked(ctx, events.AttendanceMarked{
		StudentID: studentID,
		ClassID:   class.ID,
		Date:      record.Date.Format("2006-01-02"),
		Status:    status.Label(),
		Source:    source,
		Created:   created,
		At:        at,
	})

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("class_id", class.ID).
		Str("status", status.Label()).
		Str("source", source).
		Bool("created", created).
		Msg("attendance recorded")

	return RecordResult{Created: created, Status: status}, nil
}

// RecordBatch processes a bulk form submission. Ownership and window are
// checked once for the whole batch before any record is touched: a window
// closing mid-batch cannot produce a partial result. Individual entries with
// no enrollment or an unrecognized status are skipped silently and counted;
// the batch as a whole still succeeds.
func (s *attendanceService) RecordBatch(ctx context.Context, cmd BatchCommand) (BatchResult, error) {
	class, err := s.authorizeClass(ctx, cmd.ClassID, cmd.ActorTeacherID)
	if err != nil {
		return BatchResult{}, err
	}

	if !class.IsActiveAt(cmd.At) {
		return BatchResult{}, ErrWindowClosed
	}

	result := BatchResult{Date: models.DateOf(cmd.At)}
	for _, entry := range cmd.Entries {
		status, ok := models.ParseStatus(entry.Status)
		if !ok {
			result.Skipped++
			continue
		}

		if _, err := s.write(ctx, class, entry.StudentID, status, cmd.At, "bulk"); err != nil {
			if errors.Is(err, ErrNotEnrolled) || errors.Is(err, ErrInvalidStatus) {
				result.Skipped++
				continue
			}
			return result, err
		}

		result.Marked++
	}

	return result, nil
}

// RecordScan resolves the scanned student code and marks the student present.
// Unlike the bulk path, every rejection is reported distinctly: one scan,
// one response.
func (s *attendanceService) RecordScan(ctx context.Context, cmd ScanCommand) (ScanResult, error) {
	student, err := s.students.GetByStudentID(ctx, cmd.StudentCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.ScanOutcomes().WithLabelValues("student_not_found").Inc()
			return ScanResult{}, ErrStudentNotFound
		}
		return ScanResult{}, err
	}

	result, err := s.Record(ctx, RecordCommand{
		ActorTeacherID: cmd.ActorTeacherID,
		StudentID:      student.ID,
		ClassID:        cmd.ClassID,
		Status:         models.StatusPresent,
		At:             cmd.At,
	})
	if err != nil {
		observability.ScanOutcomes().WithLabelValues(scanOutcomeLabel(err)).Inc()
		return ScanResult{}, err
	}

	outcome := "marked"
	if !result.Created {
		outcome = "already_marked"
	}
	observability.ScanOutcomes().WithLabelValues(outcome).Inc()

	return ScanResult{Created: result.Created, Student: student, Status: result.Status}, nil
}

func scanOutcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrWindowClosed):
		return "window_closed"
	case errors.Is(err, ErrNotEnrolled):
		return "not_enrolled"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrClassNotFound):
		return "class_not_found"
	default:
		return "error"
	}
}

// Roster prefills the manual marking screen: every enrolled student with
// today's recorded status, defaulting to absent.
func (s *attendanceService) Roster(ctx context.Context, teacherID, classID uint, at time.Time) (dto.RosterResponse, error) {
	class, err := s.authorizeClass(ctx, classID, teacherID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	enrolled, err := s.students.ListEnrolled(ctx, classID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	statuses, err := s.attendance.StatusesForDate(ctx, classID, at)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	entries := make([]dto.RosterEntry, 0, len(enrolled))
	for _, student := range enrolled {
		status, ok := statuses[student.ID]
		if !ok {
			status = models.StatusAbsent
		}
		entries = append(entries, dto.RosterEntry{
			StudentID:   student.ID,
			StudentName: student.FullName(),
			Status:      status.Label(),
		})
	}

	return dto.RosterResponse{
		ClassID:  classID,
		Active:   class.IsActiveAt(at),
		Date:     models.DateOf(at).Format("2006-01-02"),
		Students: entries,
	}, nil
}

// ClassHistory lists all attendance for an owned class, optionally filtered
// by date, along with the distinct dates available for filtering.
func (s *attendanceService) ClassHistory(ctx context.Context, teacherID, classID uint, date *time.Time) (dto.ClassHistoryResponse, error) {
	if _, err := s.authorizeClass(ctx, classID, teacherID); err != nil {
		return dto.ClassHistoryResponse{}, err
	}

	records, err := s.attendance.ListForClass(ctx, classID, date)
	if err != nil {
		return dto.ClassHistoryResponse{}, err
	}

	dates, err := s.attendance.DistinctDates(ctx, classID)
	if err != nil {
		return dto.ClassHistoryResponse{}, err
	}

	response := dto.ClassHistoryResponse{
		Records: make([]dto.AttendanceRecordResponse, 0, len(records)),
		Dates:   make([]string, 0, len(dates)),
	}
	for _, record := range records {
		response.Records = append(response.Records, dto.NewAttendanceRecordResponse(record))
	}
	for _, d := range dates {
		response.Dates = append(response.Dates, d.Format("2006-01-02"))
	}

	return response, nil
}

// StudentHistory lists a student's own records for a class they are enrolled
// in, newest first.
func (s *attendanceService) StudentHistory(ctx context.Context, studentID, classID uint) ([]dto.AttendanceRecordResponse, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, classID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	records, err := s.attendance.ListForStudentClass(ctx, studentID, classID)
	if err != nil {
		return nil, err
	}

	history := make([]dto.AttendanceRecordResponse, 0, len(records))
	for _, record := range records {
		history = append(history, dto.NewAttendanceRecordResponse(record))
	}

	return history, nil
}
