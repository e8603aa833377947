package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rooterworks/rmetrack/internal/identity"
)

// Entry is one recorded mutation outcome. Entries are written after the
// backend call completes, success or failure, so the trail shows exactly
// which rows of a partially-failed batch went through.
type Entry struct {
	ID          uuid.UUID
	WorkOrderID string
	Action      string
	ActorName   string
	ActorEmail  string
	Failure     string
	CreatedAt   time.Time
}

//go:generate mockgen -source=audit.go -destination=recorder_mock.go -package=audit
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// NewEntry builds an entry for an action performed by user on a work order.
// err may be nil for successful mutations.
func NewEntry(user identity.User, workOrderID, action string, err error) Entry {
	e := Entry{
		ID:          uuid.New(),
		WorkOrderID: workOrderID,
		Action:      action,
		ActorName:   user.Name,
		ActorEmail:  user.Email,
		CreatedAt:   time.Now(),
	}
	if err != nil {
		e.Failure = err.Error()
	}

	return e
}

// NopRecorder drops entries; used when no audit database is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) error { return nil }
