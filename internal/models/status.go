package models

import (
	"encoding/json"
	"fmt"
)

// Status is a task lifecycle stage. The numeric order of the constants is the
// column order of the board and the precedence used by task ordering.
type Status int

const (
	StatusBacklog Status = iota
	StatusTodo
	StatusInProgress
	StatusInReview
	StatusWaitingForRetest
	StatusDone
)

// statusInvalid marks a status that failed to decode.
const statusInvalid Status = -1

var statusNames = [...]string{
	"BACKLOG",
	"TODO",
	"IN_PROGRESS",
	"IN_REVIEW",
	"WAITING_FOR_RETEST",
	"DONE",
}

// Statuses lists every status in board order.
func Statuses() []Status {
	return []Status{
		StatusBacklog,
		StatusTodo,
		StatusInProgress,
		StatusInReview,
		StatusWaitingForRetest,
		StatusDone,
	}
}

// Valid reports whether s is one of the defined stages.
func (s Status) Valid() bool {
	return s >= StatusBacklog && s <= StatusDone
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Before reports whether s comes strictly before o in board order.
func (s Status) Before(o Status) bool {
	return s < o
}

// ParseStatus returns the status with the given wire name.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return statusInvalid, fmt.Errorf("unknown status %q", name)
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name. Unknown values decode to an invalid
// status which the task loader replaces with the default.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		*s = statusInvalid
		return nil
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		*s = statusInvalid
		return nil
	}
	*s = parsed
	return nil
}
