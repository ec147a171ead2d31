package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/DavonGT/AttendMe/internal/dto"
	"github.com/DavonGT/AttendMe/internal/service"
	"github.com/DavonGT/AttendMe/internal/utils"
)

// AttendanceHandler wires the manual marking form, the scanner endpoint and
// the history listings.
type AttendanceHandler struct {
	service   service.AttendanceService
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, validate *validator.Validate, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "attendance_handler").Logger(),
		now:       time.Now,
	}
}

// Register attaches attendance endpoints to the teacher route group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("/classes/:id/roster", h.roster)
	router.Post("/classes/:id/attendance", h.bulkMark)
	router.Get("/classes/:id/attendance", h.classHistory)
	router.Post("/scan", h.scan)
}

// roster prefills the manual marking screen with today's statuses.
func (h *AttendanceHandler) roster(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.service.Roster(c.Context(), userIDFromContext(c), classID, h.now())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster retrieved", roster)
}

// bulkMark is the manual form submission: best-effort per entry, one
// aggregate response. The window is re-validated server-side regardless of
// what the form displayed when it was rendered.
func (h *AttendanceHandler) bulkMark(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.BulkAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	entries := make([]service.BatchEntry, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		entries = append(entries, service.BatchEntry{StudentID: entry.StudentID, Status: entry.Status})
	}

	result, err := h.service.RecordBatch(c.Context(), service.BatchCommand{
		ActorTeacherID: userIDFromContext(c),
		ClassID:        classID,
		Entries:        entries,
		At:             h.now(),
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance submitted", dto.BulkAttendanceResponse{
		Marked:  result.Marked,
		Skipped: result.Skipped,
		Date:    result.Date,
	})
}

// scan handles one barcode scan event. Every rejection gets its own distinct
// status code and message: the scanner UI shows exactly one line per scan.
func (h *AttendanceHandler) scan(c *fiber.Ctx) error {
	var payload dto.ScanRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.RecordScan(c.Context(), service.ScanCommand{
		ActorTeacherID: userIDFromContext(c),
		StudentCode:    payload.StudentID,
		ClassID:        payload.ClassID,
		At:             h.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, fmt.Sprintf("student ID %s not found", payload.StudentID))
		case errors.Is(err, service.ErrWindowClosed):
			return utils.SendError(c, fiber.StatusBadRequest, "attendance window is closed")
		case errors.Is(err, service.ErrNotEnrolled):
			return utils.SendError(c, fiber.StatusBadRequest, "student is not enrolled in this class")
		case errors.Is(err, service.ErrClassNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "class not found")
		case errors.Is(err, service.ErrUnauthorized):
			return utils.SendError(c, fiber.StatusForbidden, "you do not own this class")
		default:
			h.logger.Error().Err(err).Msg("scan failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	name := result.Student.FullName()
	message := fmt.Sprintf("%s marked present", name)
	if !result.Created {
		message = fmt.Sprintf("%s already marked present", name)
	}

	return utils.SendSuccess(c, message, dto.ScanResponse{
		StudentName:   name,
		Status:        result.Status.Label(),
		AlreadyMarked: !result.Created,
	})
}

// classHistory lists attendance for an owned class, optionally filtered by
// a ?date=YYYY-MM-DD query parameter.
func (h *AttendanceHandler) classHistory(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	date, err := parseDateQuery(c, "date")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	history, err := h.service.ClassHistory(c.Context(), userIDFromContext(c), classID, date)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance history retrieved", history)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "you do not own this class")
	case errors.Is(err, service.ErrWindowClosed):
		return utils.SendError(c, fiber.StatusBadRequest, "attendance window is closed")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
