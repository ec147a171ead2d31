package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/DavonGT/AttendMe/internal/dto"
	"github.com/DavonGT/AttendMe/internal/models"
	"github.com/DavonGT/AttendMe/internal/service"
	"github.com/DavonGT/AttendMe/internal/utils"
)

type stubAttendanceService struct {
	scanResult  service.ScanResult
	scanErr     error
	batchResult service.BatchResult
	batchErr    error
	lastScan    service.ScanCommand
	lastBatch   service.BatchCommand
}

func (s *stubAttendanceService) Record(ctx context.Context, cmd service.RecordCommand) (service.RecordResult, error) {
	return service.RecordResult{}, nil
}

func (s *stubAttendanceService) RecordBatch(ctx context.Context, cmd service.BatchCommand) (service.BatchResult, error) {
	s.lastBatch = cmd
	return s.batchResult, s.batchErr
}

func (s *stubAttendanceService) RecordScan(ctx context.Context, cmd service.ScanCommand) (service.ScanResult, error) {
	s.lastScan = cmd
	return s.scanResult, s.scanErr
}

func (s *stubAttendanceService) Roster(ctx context.Context, teacherID, classID uint, at time.Time) (dto.RosterResponse, error) {
	return dto.RosterResponse{}, nil
}

func (s *stubAttendanceService) ClassHistory(ctx context.Context, teacherID, classID uint, date *time.Time) (dto.ClassHistoryResponse, error) {
	return dto.ClassHistoryResponse{}, nil
}

func (s *stubAttendanceService) StudentHistory(ctx context.Context, studentID, classID uint) ([]dto.AttendanceRecordResponse, error) {
	return nil, nil
}

func newTestApp(svc service.AttendanceService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	})

	handler := NewAttendanceHandler(svc, validator.New(), zerolog.New(io.Discard))
	handler.Register(app.Group("/api/v1/teacher"))
	return app
}

func performJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()

	var decoded utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func TestScanStatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"window closed", service.ErrWindowClosed, fiber.StatusBadRequest, "attendance window is closed"},
		{"not enrolled", service.ErrNotEnrolled, fiber.StatusBadRequest, "student is not enrolled in this class"},
		{"unknown student", service.ErrStudentNotFound, fiber.StatusNotFound, "student ID S999 not found"},
		{"class not found", service.ErrClassNotFound, fiber.StatusNotFound, "class not found"},
		{"not the owner", service.ErrUnauthorized, fiber.StatusForbidden, "you do not own this class"},
		{"storage failure", io.ErrUnexpectedEOF, fiber.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubAttendanceService{scanErr: tc.err})

			resp := performJSON(t, app, fiber.MethodPost, "/api/v1/teacher/scan",
				dto.ScanRequest{StudentID: "S999", ClassID: 3})
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			decoded := decodeResponse(t, resp)
			require.False(t, decoded.Success)
			require.Equal(t, tc.wantMsg, decoded.Message)
		})
	}
}

func TestScanSuccessDistinguishesFirstMark(t *testing.T) {
	student := models.Student{FirstName: "Alan", LastName: "Turing", StudentID: "S123"}

	t.Run("first scan", func(t *testing.T) {
		svc := &stubAttendanceService{scanResult: service.ScanResult{
			Created: true,
			Student: student,
			Status:  models.StatusPresent,
		}}
		app := newTestApp(svc)

		resp := performJSON(t, app, fiber.MethodPost, "/api/v1/teacher/scan",
			dto.ScanRequest{StudentID: "S123", ClassID: 3})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		decoded := decodeResponse(t, resp)
		require.True(t, decoded.Success)
		require.Equal(t, "Alan Turing marked present", decoded.Message)
		require.Equal(t, uint(1), svc.lastScan.ActorTeacherID)
		require.Equal(t, "S123", svc.lastScan.StudentCode)
	})

	t.Run("repeat scan", func(t *testing.T) {
		svc := &stubAttendanceService{scanResult: service.ScanResult{
			Created: false,
			Student: student,
			Status:  models.StatusPresent,
		}}
		app := newTestApp(svc)

		resp := performJSON(t, app, fiber.MethodPost, "/api/v1/teacher/scan",
			dto.ScanRequest{StudentID: "S123", ClassID: 3})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		decoded := decodeResponse(t, resp)
		require.Equal(t, "Alan Turing already marked present", decoded.Message)
	})
}

func TestScanRejectsMalformedBody(t *testing.T) {
	app := newTestApp(&stubAttendanceService{})

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/teacher/scan",
		bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBulkMarkReportsAggregateResult(t *testing.T) {
	svc := &stubAttendanceService{batchResult: service.BatchResult{
		Marked:  2,
		Skipped: 1,
		Date:    time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}}
	app := newTestApp(svc)

	resp := performJSON(t, app, fiber.MethodPost, "/api/v1/teacher/classes/3/attendance",
		dto.BulkAttendanceRequest{Entries: []dto.BulkAttendanceEntry{
			{StudentID: 10, Status: "present"},
			{StudentID: 11, Status: "absent"},
			{StudentID: 12, Status: "late"},
		}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	decoded := decodeResponse(t, resp)
	require.True(t, decoded.Success)
	require.Equal(t, uint(3), svc.lastBatch.ClassID)
	require.Len(t, svc.lastBatch.Entries, 3)
}

func TestBulkMarkWindowClosed(t *testing.T) {
	app := newTestApp(&stubAttendanceService{batchErr: service.ErrWindowClosed})

	resp := performJSON(t, app, fiber.MethodPost, "/api/v1/teacher/classes/3/attendance",
		dto.BulkAttendanceRequest{Entries: []dto.BulkAttendanceEntry{{StudentID: 10, Status: "present"}}})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	decoded := decodeResponse(t, resp)
	require.Equal(t, "attendance window is closed", decoded.Message)
}

func TestBulkMarkRejectsBadClassParam(t *testing.T) {
	app := newTestApp(&stubAttendanceService{})

	resp := performJSON(t, app, fiber.MethodPost, "/api/v1/teacher/classes/zero/attendance",
		dto.BulkAttendanceRequest{Entries: []dto.BulkAttendanceEntry{{StudentID: 10, Status: "present"}}})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
