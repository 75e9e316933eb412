package webhook

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shopkit/commerce-gateway/internal/adapter"
)

const createdAtLayout = "2006-01-02T15:04:05.000Z"

// envelopeBody is the JSON document POSTed to subscribers
type envelopeBody struct {
	ID             string `json:"id"`
	Event          string `json:"event"`
	CreatedAt      string `json:"created_at"`
	OrganizationID string `json:"organization_id"`
	Data           Event  `json:"data"`
}

// Envelope is a serialized event ready to be signed and delivered.
// Every attempt for every subscription of one event shares the same envelope.
type Envelope struct {
	ID        string
	EventType string
	Body      []byte
}

// NewEnvelope assigns a new envelope id and serializes the event in canonical JSON form
func NewEnvelope(j adapter.JSON, tenantID string, event Event, now time.Time) (Envelope, error) {
	id := ulid.MustNewDefault(now).String()

	body, err := j.MarshalCanonical(envelopeBody{
		ID:             id,
		Event:          event.EventType(),
		CreatedAt:      now.UTC().Format(createdAtLayout),
		OrganizationID: tenantID,
		Data:           event,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return Envelope{ID: id, EventType: event.EventType(), Body: body}, nil
}
