package site

import (
	"fmt"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Status tracks a site through its lifecycle.
type Status struct {
	value string
}

const (
	statusCreating = "Creating Site"
	statusActive   = "Active"
	statusFailed   = "Failed"
	statusExpired  = "Expired"
)

var (
	StatusCreating = Status{value: statusCreating}
	StatusActive   = Status{value: statusActive}
	StatusFailed   = Status{value: statusFailed}
	StatusExpired  = Status{value: statusExpired}
)

var validStatuses = map[string]Status{
	statusCreating: StatusCreating,
	statusActive:   StatusActive,
	statusFailed:   StatusFailed,
	statusExpired:  StatusExpired,
}

var statusTransitions = map[string][]string{
	statusCreating: {statusActive, statusFailed},
	statusActive:   {statusExpired, statusFailed},
	statusFailed:   {},
	statusExpired:  {},
}

func NewStatus(value string) (Status, error) {
	s, ok := validStatuses[value]
	if !ok {
		return Status{}, errors.NewValidationError(fmt.Sprintf("invalid site status: %s", value))
	}
	return s, nil
}

func (s Status) String() string {
	return s.value
}

func (s Status) IsCreating() bool {
	return s.value == statusCreating
}

func (s Status) IsActive() bool {
	return s.value == statusActive
}

func (s Status) IsTerminal() bool {
	return s.value == statusFailed || s.value == statusExpired
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range statusTransitions[s.value] {
		if allowed == target.value {
			return true
		}
	}
	return false
}

func (s Status) ValidateTransition(target Status) error {
	if !s.CanTransitionTo(target) {
		return errors.NewValidationError(
			fmt.Sprintf("cannot transition site from %s to %s", s.value, target.value))
	}
	return nil
}
