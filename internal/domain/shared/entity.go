package shared

import (
	"time"

	"github.com/google/uuid"
)

// now is the clock used for entity timestamps. Stored times are UTC with
// microsecond precision so they survive a round trip through postgres unchanged.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// BaseEntity carries the identity and audit timestamps every aggregate shares.
// List endpoints order by CreatedAt, then ID.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity allocates a fresh id stamped with the current time.
func NewBaseEntity() BaseEntity {
	ts := now()
	return BaseEntity{ID: uuid.New(), CreatedAt: ts, UpdatedAt: ts}
}

// Touch records a mutation.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = now()
}

