package dto

import (
	"time"

	"github.com/DavonGT/AttendMe/internal/models"
)

// ClassCreateRequest carries the fields for creating a class.
type ClassCreateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Description string `json:"description" validate:"max=2000"`
}

// ClassUpdateRequest carries optional fields for a partial class update.
type ClassUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ClassResponse is the API representation of a class.
type ClassResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Description   string    `json:"description,omitempty"`
	Active        bool      `json:"active"`
	EnrolledCount int64     `json:"enrolled_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewClassResponse maps a class model to its API shape.
func NewClassResponse(class models.Class, enrolled int64, now time.Time) ClassResponse {
	return ClassResponse{
		ID:            class.ID,
		Name:          class.Name,
		StartTime:     class.StartTime.String(),
		EndTime:       class.EndTime.String(),
		Description:   class.Description,
		Active:        class.IsActiveAt(now),
		EnrolledCount: enrolled,
		CreatedAt:     class.CreatedAt,
		UpdatedAt:     class.UpdatedAt,
	}
}

// TeacherDashboardResponse aggregates a teacher's classes for the landing view.
type TeacherDashboardResponse struct {
	TotalClasses    int             `json:"total_classes"`
	TotalStudents   int64           `json:"total_students"`
	CurrentClasses  []ClassResponse `json:"current_classes"`
	UpcomingClasses []ClassResponse `json:"upcoming_classes"`
	AllClasses      []ClassResponse `json:"all_classes"`
}
