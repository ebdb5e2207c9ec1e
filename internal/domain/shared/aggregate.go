package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh ID and sets both timestamps to now (UTC)
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification at now
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = now
}

// BaseAggregateRoot adds the optimistic-lock version and the events raised
// since the aggregate was loaded. Repositories compare Version on save and
// services drain the events after a successful commit.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent queues e for publication after commit
func (a *BaseAggregateRoot) AddDomainEvent(e DomainEvent) {
	a.domainEvents = append(a.domainEvents, e)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// CompanyAggregateRoot is owned by one tenant. Repositories filter every
// read and write on CompanyID.
type CompanyAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID
	CreatedBy *uuid.UUID
	UpdatedBy *uuid.UUID
}

func NewCompanyAggregateRoot(companyID uuid.UUID) CompanyAggregateRoot {
	return CompanyAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), CompanyID: companyID}
}

// NewCompanyAggregateRootWithCreator is used for documents, which record
// the author as both creator and last editor
func NewCompanyAggregateRootWithCreator(companyID, createdBy uuid.UUID) CompanyAggregateRoot {
	root := NewCompanyAggregateRoot(companyID)
	root.CreatedBy = &createdBy
	root.UpdatedBy = &createdBy
	return root
}

// SetUpdatedBy records the last editor; uuid.Nil (system jobs) is ignored
func (c *CompanyAggregateRoot) SetUpdatedBy(userID uuid.UUID) {
	if userID != uuid.Nil {
		c.UpdatedBy = &userID
	}
}
