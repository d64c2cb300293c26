package audit

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thirumala/cashbook/internal/models"
)

// Event is one mutation of a cash book entry, as written to the audit stream.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	EntryID   string    `json:"entry_id"`
	SerialNo  int64     `json:"serial_no"`
	Actor     string    `json:"actor"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Logger mirrors edit_audit_log writes onto the application log so they can
// be shipped without querying the database.
type Logger struct {
	log logrus.FieldLogger
	now func() time.Time
}

func NewLogger(log logrus.FieldLogger) *Logger {
	return &Logger{log: log.WithField("component", "audit"), now: time.Now}
}

// LogMutation records a successful write against an entry.
func (a *Logger) LogMutation(action, actor string, entry models.LedgerRow, details any) {
	a.emit(Event{
		Timestamp: a.now(),
		EventType: action,
		EntryID:   entry.ID,
		SerialNo:  entry.SerialNumber,
		Actor:     actor,
		Status:    StatusSuccess,
		Details:   details,
	}, nil)
}

// LogError records a refused or failed write.
func (a *Logger) LogError(action, actor, entryID string, err error) {
	a.emit(Event{
		Timestamp: a.now(),
		EventType: action,
		EntryID:   entryID,
		Actor:     actor,
		Status:    StatusFailed,
	}, err)
}

func (a *Logger) emit(e Event, err error) {
	entry := a.log.WithFields(logrus.Fields{
		"event_type": e.EventType,
		"entry_id":   e.EntryID,
		"actor":      e.Actor,
		"status":     e.Status,
		"at":         e.Timestamp.UTC().Format(time.RFC3339),
	})
	if e.SerialNo != 0 {
		entry = entry.WithField("serial_no", e.SerialNo)
	}
	if e.Details != nil {
		entry = entry.WithField("details", e.Details)
	}
	if err != nil {
		entry.WithError(err).Warn("AUDIT")
		return
	}
	entry.Info("AUDIT")
}
