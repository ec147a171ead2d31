package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// AttendanceMarked is emitted after every successful attendance write.
type AttendanceMarked struct {
	StudentID uint      `json:"student_id"`
	ClassID   uint      `json:"class_id"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Created   bool      `json:"created"`
	At        time.Time `json:"at"`
}

// Publisher broadcasts attendance events to interested consumers.
type Publisher interface {
	PublishAttendanceMarked(ctx context.Context, event AttendanceMarked)
}

const attendanceMarkedSubject = "attendme.attendance.marked"

type natsPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewNATSPublisher wraps a NATS connection. Publishing is fire-and-forget:
// a broker outage must never fail an attendance write.
func NewNATSPublisher(conn *nats.Conn, logger zerolog.Logger) Publisher {
	return &natsPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "events_publisher").Logger(),
	}
}

func (p *natsPublisher) PublishAttendanceMarked(_ context.Context, event AttendanceMarked) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode attendance event")
		return
	}

	if err := p.conn.Publish(attendanceMarkedSubject, payload); err != nil {
		p.logger.Warn().Err(err).Msg("failed to publish attendance event")
	}
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops all events, used when the
// broker is not configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishAttendanceMarked(context.Context, AttendanceMarked) {}
