package queue

import (
	"time"
)

// Status is the lifecycle state of a tracked note request.
type Status string

const (
	// StatusNeedLogin marks a request captured while signed out. No network
	// call is made for it.
	StatusNeedLogin Status = "need_login"
	// StatusSending marks a request whose backend call is in flight.
	StatusSending Status = "sending"
	// StatusDone marks a request whose note came back.
	StatusDone Status = "done"
	// StatusError marks a request that failed at the network or HTTP layer.
	StatusError Status = "error"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Entry is one tracked user note-request and its lifecycle status.
//
// The ID is minted at enqueue time and threaded through the backend call, so
// two identical selections in flight at once stay distinguishable.
type Entry struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Source      string    `json:"source,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
	AI          string    `json:"ai,omitempty"`
	Err         string    `json:"error,omitempty"`
}
