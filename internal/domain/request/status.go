package request

import "fmt"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

var statusTransitions = map[Status][]Status{
	StatusPending: {
		StatusApproved,
		StatusRejected,
		StatusCancelled,
	},
	StatusApproved: {
		StatusCancelled,
	},
	StatusRejected:  {},
	StatusCancelled: {},
}

func NewStatus(status string) (Status, error) {
	s := Status(status)

	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("invalid request status: %s", status)
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

func (s Status) IsApproved() bool {
	return s == StatusApproved
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := statusTransitions[s]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

func (s Status) ValidateTransition(target Status) error {
	if !s.CanTransitionTo(target) {
		return fmt.Errorf("cannot transition from %s to %s", s, target)
	}
	return nil
}
