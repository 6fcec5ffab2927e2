package todo

import (
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpCreate   Op = "create"
	OpComplete Op = "complete"
	OpDelete   Op = "delete"
)

// Event records one mutating invocation accepted by the host.
// Found is false when the call took the not-found branch.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Op        Op        `json:"op"`
	TodoID    uint64    `json:"todo_id"`
	Found     bool      `json:"found"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(op Op, id uint64, err error) Event {
	return Event{
		ID:        uuid.New(),
		Op:        op,
		TodoID:    id,
		Found:     err == nil,
		Timestamp: time.Now().UTC(),
	}
}
