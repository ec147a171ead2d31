package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	attendanceMarksTotal  *prometheus.CounterVec
	scanOutcomesTotal     *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for attendance
// operations.
func RegisterMetrics() {
	registerOnce.Do(func() {
		attendanceMarksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendme_attendance_marks_total",
			Help: "Attendance records written, by entry point and stored status.",
		}, []string{"source", "status"})

		scanOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendme_scan_outcomes_total",
			Help: "Scan events received, by decision outcome.",
		}, []string{"outcome"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendme_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(attendanceMarksTotal, scanOutcomesTotal, requestLatencySeconds)
	})
}

// AttendanceMarks exposes the counter for attendance writes.
func AttendanceMarks() *prometheus.CounterVec {
	RegisterMetrics()
	return attendanceMarksTotal
}

// ScanOutcomes exposes the counter for scan decisions.
func ScanOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return scanOutcomesTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}
