package site

import (
	"strings"
	"testing"
)

func TestNewDomainName_Valid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"simple", "example.com", "example.com"},
		{"subdomain", "acme.spm.cloud", "acme.spm.cloud"},
		{"uppercase lowered", "Acme.SPM.Cloud", "acme.spm.cloud"},
		{"single label", "localhost", "localhost"},
		{"with whitespace", "  example.com  ", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDomainName(tt.value)
			if err != nil {
				t.Errorf("NewDomainName(%q) error = %v, want nil", tt.value, err)
				return
			}
			if d.String() != tt.want {
				t.Errorf("String() = %q, want %q", d.String(), tt.want)
			}
		})
	}
}

func TestNewDomainName_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"leading hyphen", "-acme.com"},
		{"trailing hyphen label", "acme-.com"},
		{"empty label", "acme..com"},
		{"space inside", "acme corp.com"},
		{"too long", strings.Repeat("a", 250) + ".com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDomainName(tt.value); err == nil {
				t.Errorf("NewDomainName(%q) error = nil, want error", tt.value)
			}
		})
	}
}

func TestDomainName_EnsureSuffix(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		suffix string
		want   string
	}{
		{"appends missing suffix", "acme", "spm.cloud", "acme.spm.cloud"},
		{"keeps present suffix", "acme.spm.cloud", "spm.cloud", "acme.spm.cloud"},
		{"suffix with leading dot", "acme", ".spm.cloud", "acme.spm.cloud"},
		{"empty suffix is a no-op", "acme.com", "", "acme.com"},
		{"value equals suffix", "spm.cloud", "spm.cloud", "spm.cloud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDomainName(tt.value)
			if err != nil {
				t.Fatalf("NewDomainName(%q) error = %v", tt.value, err)
			}
			if got := d.EnsureSuffix(tt.suffix).String(); got != tt.want {
				t.Errorf("EnsureSuffix(%q) = %q, want %q", tt.suffix, got, tt.want)
			}
		})
	}
}
