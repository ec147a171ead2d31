package dto

// AttendanceSummary is the student's aggregate performance. Percent defaults
// to 100 when no records exist yet.
type AttendanceSummary struct {
	TotalRecords int64   `json:"total_records"`
	PresentCount int64   `json:"present_count"`
	Percent      float64 `json:"percent"`
}

// StudentDashboardResponse aggregates a student's enrolled classes and
// attendance performance.
type StudentDashboardResponse struct {
	EnrolledClasses []ClassResponse   `json:"enrolled_classes"`
	CurrentClasses  []ClassResponse   `json:"current_classes"`
	UpcomingClasses []ClassResponse   `json:"upcoming_classes"`
	Attendance      AttendanceSummary `json:"attendance"`
}
