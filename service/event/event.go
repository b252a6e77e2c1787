package event

import (
	"time"

	"github.com/procdoc/procdoc/internal/clock"
	"github.com/procdoc/procdoc/internal/idgen"
	"github.com/procdoc/procdoc/service/validator"
)

// Event types emitted during an audit.
const (
	TypeDocumentLoaded    = "document.loaded"
	TypeDocumentValidated = "document.validated"
	TypeDocumentFailed    = "document.failed"
)

// Event describes one document lifecycle notification.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	URL       string            `json:"url,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	Error     string            `json:"error,omitempty"`
	Report    *validator.Report `json:"report,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewEvent creates an event of the given type for a document location.
func NewEvent(eventType, URL, kind string) *Event {
	return &Event{
		ID:        idgen.New(),
		Type:      eventType,
		URL:       URL,
		Kind:      kind,
		CreatedAt: clock.Now(),
	}
}

// WithReport attaches a validation report to the event.
func (e *Event) WithReport(report *validator.Report) *Event {
	e.Report = report
	return e
}

// WithError attaches a failure message to the event.
func (e *Event) WithError(err error) *Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
