package site

import (
	"testing"
)

func TestNewSiteName_Valid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"simple", "acme", "acme"},
		{"with hyphen", "acme-corp", "acme-corp"},
		{"with underscore", "acme_corp", "acme_corp"},
		{"with digits", "acme42", "acme42"},
		{"with whitespace", "  acme  ", "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewSiteName(tt.value)
			if err != nil {
				t.Errorf("NewSiteName(%q) error = %v, want nil", tt.value, err)
				return
			}
			if n.String() != tt.want {
				t.Errorf("String() = %q, want %q", n.String(), tt.want)
			}
		})
	}
}

func TestNewSiteName_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"spaces inside", "acme corp"},
		{"dots", "acme.corp"},
		{"slash", "acme/corp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSiteName(tt.value); err == nil {
				t.Errorf("NewSiteName(%q) error = nil, want error", tt.value)
			}
		})
	}
}

func TestDeriveSiteName(t *testing.T) {
	tests := []struct {
		name     string
		customer string
		want     string
	}{
		{"plain", "Acme", "acme"},
		{"two words", "Acme Corp", "acme-corp"},
		{"punctuation", "O'Brien & Sons, Ltd.", "o-brien-sons-ltd"},
		{"leading trailing junk", "  --Acme--  ", "acme"},
		{"digits kept", "Acme 2000", "acme-2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := DeriveSiteName(tt.customer)
			if err != nil {
				t.Errorf("DeriveSiteName(%q) error = %v, want nil", tt.customer, err)
				return
			}
			if n.String() != tt.want {
				t.Errorf("DeriveSiteName(%q) = %q, want %q", tt.customer, n.String(), tt.want)
			}
		})
	}
}

func TestDeriveSiteName_NoUsableCharacters(t *testing.T) {
	if _, err := DeriveSiteName("!!! ???"); err == nil {
		t.Error("DeriveSiteName with only punctuation should fail")
	}
}

func TestSiteName_WithSuffix(t *testing.T) {
	n, err := NewSiteName("acme")
	if err != nil {
		t.Fatalf("NewSiteName() error = %v", err)
	}
	if got := n.WithSuffix(2).String(); got != "acme-2" {
		t.Errorf("WithSuffix(2) = %q, want %q", got, "acme-2")
	}
}
