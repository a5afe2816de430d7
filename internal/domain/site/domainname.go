package site

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// RFC 1035 labels: alphanumeric start and end, hyphens inside, 63 chars max.
var domainNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// DomainName is a fully qualified hostname a site is served under.
type DomainName struct {
	value string
}

func NewDomainName(value string) (DomainName, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DomainName{}, errors.NewValidationError("domain name is required")
	}
	if len(value) > 253 {
		return DomainName{}, errors.NewValidationError("domain name exceeds 253 characters")
	}
	if !domainNamePattern.MatchString(value) {
		return DomainName{}, errors.NewValidationError(
			fmt.Sprintf("domain name %q is not a valid hostname", value))
	}
	return DomainName{value: value}, nil
}

// EnsureSuffix appends the platform domain suffix when the value does
// not already end with it. The suffix is given without a leading dot.
func (d DomainName) EnsureSuffix(suffix string) DomainName {
	suffix = strings.TrimPrefix(strings.TrimSpace(suffix), ".")
	if suffix == "" || strings.HasSuffix(d.value, "."+suffix) || d.value == suffix {
		return d
	}
	return DomainName{value: d.value + "." + suffix}
}

func (d DomainName) String() string {
	return d.value
}

func (d DomainName) IsEmpty() bool {
	return d.value == ""
}
