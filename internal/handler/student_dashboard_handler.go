package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/DavonGT/AttendMe/internal/service"
	"github.com/DavonGT/AttendMe/internal/utils"
)

// StudentHandler serves the student-facing read surface: the dashboard and
// per-class attendance history. Students never write attendance.
type StudentHandler struct {
	dashboard  service.StudentDashboardService
	attendance service.AttendanceService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(dashboard service.StudentDashboardService, attendance service.AttendanceService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		dashboard:  dashboard,
		attendance: attendance,
		logger:     logger.With().Str("component", "student_handler").Logger(),
		now:        time.Now,
	}
}

// Register attaches student endpoints to the student route group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Get("/classes/:id/attendance", h.classHistory)
}

func (h *StudentHandler) getDashboard(c *fiber.Ctx) error {
	resp, err := h.dashboard.GetDashboard(c.Context(), userIDFromContext(c), h.now())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build student dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard retrieved", resp)
}

// classHistory returns the caller's own records for one enrolled class.
func (h *StudentHandler) classHistory(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.attendance.StudentHistory(c.Context(), userIDFromContext(c), classID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "class not found")
		case errors.Is(err, service.ErrNotEnrolled):
			return utils.SendError(c, fiber.StatusForbidden, "you are not enrolled in this class")
		default:
			h.logger.Error().Err(err).Msg("failed to list attendance history")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "attendance history retrieved", records)
}
