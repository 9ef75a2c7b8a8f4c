package meta

import (
	"time"

	"gorm.io/gorm"
)

// ObjectMeta is metadata that all persisted resources must have.
type ObjectMeta struct {
	// ID is the database identifier of this object.
	ID uint `gorm:"primaryKey" json:"id"`

	// ResourceVersion identifies the internal version of this object. It starts at 1
	// and is bumped on every update so clients can detect concurrent changes.
	ResourceVersion int `json:"resourceVersion,omitempty" gorm:"column:resource_version"`

	// CreatedAt is the server time when this object was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the server time when this object was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// BaseResource is the base type that all resources embed. Besides the persisted
// metadata it buffers the domain events recorded by the aggregate until the
// surrounding transaction commits.
type BaseResource struct {
	ObjectMeta `json:",inline"`

	events []Event
}

// ResourceValidator is implemented by resources that check their own invariants
// before being written.
type ResourceValidator interface {
	Validate() error
}

// GetID returns the ID of the resource
func (b *BaseResource) GetID() uint {
	return b.ID
}

// GetResourceVersion returns the resource version
func (b *BaseResource) GetResourceVersion() int {
	return b.ResourceVersion
}

// IsNew reports whether the resource has not been persisted yet.
func (b *BaseResource) IsNew() bool {
	return b.ID == 0
}

// RecordEvent buffers a domain event on the aggregate.
func (b *BaseResource) RecordEvent(event Event) {
	b.events = append(b.events, event)
}

// PullEvents returns the buffered events and clears the buffer.
func (b *BaseResource) PullEvents() []Event {
	events := b.events
	b.events = nil
	return events
}

// BeforeCreate is a GORM hook that runs before creating a resource
func (b *BaseResource) BeforeCreate(tx *gorm.DB) error {
	if b.ResourceVersion == 0 {
		b.ResourceVersion = 1
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a resource
func (b *BaseResource) BeforeUpdate(tx *gorm.DB) error {
	b.ResourceVersion++
	return nil
}
