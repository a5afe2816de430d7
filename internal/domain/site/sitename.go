package site

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

var siteNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SiteName identifies a bench site. It is the short name before the
// domain suffix, e.g. "acme-corp" in "acme-corp.example.cloud".
type SiteName struct {
	value string
}

func NewSiteName(value string) (SiteName, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return SiteName{}, errors.NewValidationError("site name is required")
	}
	if !siteNamePattern.MatchString(value) {
		return SiteName{}, errors.NewValidationError(
			fmt.Sprintf("site name %q may only contain letters, digits, hyphens and underscores", value))
	}
	return SiteName{value: value}, nil
}

func (n SiteName) String() string {
	return n.value
}

func (n SiteName) IsEmpty() bool {
	return n.value == ""
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSiteName builds a candidate site name from a customer name:
// lowercased, punctuation and spaces collapsed to hyphens, leading and
// trailing hyphens stripped. Uniqueness suffixes are the caller's job.
func DeriveSiteName(customerName string) (SiteName, error) {
	base := strings.ToLower(strings.TrimSpace(customerName))
	base = nonAlphanumeric.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		return SiteName{}, errors.NewValidationError("customer name yields an empty site name")
	}
	return SiteName{value: base}, nil
}

// WithSuffix returns the name with a numeric uniqueness suffix appended.
func (n SiteName) WithSuffix(i int) SiteName {
	return SiteName{value: fmt.Sprintf("%s-%d", n.value, i)}
}
