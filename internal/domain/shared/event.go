package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate of one company.
// Handlers switch on EventType and type-assert to the concrete payload.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	CompanyID() uuid.UUID
}

// BaseDomainEvent is embedded by every concrete event. The JSON shape is the
// envelope written to logs and notification payloads.
type BaseDomainEvent struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	At       time.Time `json:"occurred_at"`
	Subject  uuid.UUID `json:"aggregate_id"`
	Kind     string    `json:"aggregate_type"`
	TenantID uuid.UUID `json:"company_id"`
}

// NewBaseDomainEvent stamps an event of eventType raised by the aggregate
// aggType/aggID owned by companyID
func NewBaseDomainEvent(eventType, aggType string, aggID, companyID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:       uuid.New(),
		Type:     eventType,
		At:       time.Now().UTC(),
		Subject:  aggID,
		Kind:     aggType,
		TenantID: companyID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Subject }
func (e *BaseDomainEvent) AggregateType() string  { return e.Kind }
func (e *BaseDomainEvent) CompanyID() uuid.UUID   { return e.TenantID }
