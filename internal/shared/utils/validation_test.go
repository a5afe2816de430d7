package utils

import (
	"strings"
	"testing"
)

func TestValidateStruct(t *testing.T) {
	type form struct {
		Name  string `json:"customer_name" validate:"required,max=10"`
		Email string `json:"email" validate:"omitempty,email"`
	}

	if err := ValidateStruct(&form{Name: "Acme"}); err != nil {
		t.Errorf("valid struct returned error: %v", err)
	}

	err := ValidateStruct(&form{})
	if err == nil {
		t.Fatal("missing required field should fail")
	}
	if !strings.Contains(err.Error(), "customer_name is required") {
		t.Errorf("error should name the json field, got %q", err.Error())
	}

	err = ValidateStruct(&form{Name: "Acme", Email: "not-an-email"})
	if err == nil {
		t.Fatal("invalid email should fail")
	}
	if !strings.Contains(err.Error(), "email must be a valid email address") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestValidateHostAddress(t *testing.T) {
	valid := []string{"192.168.1.10", "10.0.0.1", "2001:db8::1", "fleet-01.internal", "example.com"}
	for _, addr := range valid {
		if err := ValidateHostAddress(addr); err != nil {
			t.Errorf("ValidateHostAddress(%q) = %v, want nil", addr, err)
		}
	}

	invalid := []string{"", "   ", "-bad.host", "host..name", "host name"}
	for _, addr := range invalid {
		if err := ValidateHostAddress(addr); err == nil {
			t.Errorf("ValidateHostAddress(%q) = nil, want error", addr)
		}
	}
}

func TestValidateSSHPort(t *testing.T) {
	for _, port := range []int{1, 22, 2222, 65535} {
		if err := ValidateSSHPort(port); err != nil {
			t.Errorf("ValidateSSHPort(%d) = %v, want nil", port, err)
		}
	}
	for _, port := range []int{0, -1, 65536} {
		if err := ValidateSSHPort(port); err == nil {
			t.Errorf("ValidateSSHPort(%d) = nil, want error", port)
		}
	}
}
