package sshexec

import "testing"

func TestPromptResponderSudoPassword(t *testing.T) {
	p := NewPromptResponder("hunter2")

	answer, ok := p.Respond("[sudo] password for frappe: ")
	if !ok {
		t.Fatal("expected a response to the sudo prompt")
	}
	if answer != "hunter2\n" {
		t.Errorf("answer = %q, want password with newline", answer)
	}

	// A second sudo prompt means the password was rejected.
	if _, ok := p.Respond("[sudo] password for frappe: "); ok {
		t.Error("sudo password must only be sent once per run")
	}
}

func TestPromptResponderConfirmations(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{"lowercase confirm", "Do you want to continue? [y/N] ", "y\n"},
		{"uppercase confirm", "Proceed with update? [Y/n] ", "y\n"},
		{"numbered menu", "Select the appropriate number [1-2]: ", "2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPromptResponder("pw")
			answer, ok := p.Respond(tt.chunk)
			if !ok {
				t.Fatalf("expected response for %q", tt.chunk)
			}
			if answer != tt.want {
				t.Errorf("answer = %q, want %q", answer, tt.want)
			}
		})
	}
}

func TestPromptResponderIgnoresPlainOutput(t *testing.T) {
	p := NewPromptResponder("pw")

	chunks := []string{
		"Installing app quota...",
		"Site acme-corp created",
		"yarn install v1.22.19",
	}
	for _, chunk := range chunks {
		if _, ok := p.Respond(chunk); ok {
			t.Errorf("unexpected response for %q", chunk)
		}
	}
}
