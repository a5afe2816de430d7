package sshexec

import "strings"

// TimeoutMarker is appended to the captured output when a command is
// cut off by its deadline, so operators reading the log can tell a
// truncated run from a completed one.
const TimeoutMarker = "\n[Timeout Exceeded]"

// PromptResponder watches interactive output for known prompts and
// produces the canned answers a human operator would type. It keeps
// enough state to answer the sudo prompt exactly once per run; a second
// sudo prompt means the password was rejected and the command should be
// left to fail on its own.
type PromptResponder struct {
	password     string
	sentPassword bool
}

// NewPromptResponder creates a responder that will answer sudo prompts
// with the given password.
func NewPromptResponder(password string) *PromptResponder {
	return &PromptResponder{password: password}
}

// Respond inspects freshly received output and returns the text to
// write to the remote stdin, if any.
func (p *PromptResponder) Respond(chunk string) (string, bool) {
	switch {
	case strings.Contains(chunk, "[sudo] password for"):
		if p.sentPassword {
			return "", false
		}
		p.sentPassword = true
		return p.password + "\n", true
	case strings.Contains(chunk, "Select the appropriate number [1-2]"):
		return "2\n", true
	case strings.Contains(chunk, "[y/N]"), strings.Contains(chunk, "[Y/n]"):
		return "y\n", true
	}
	return "", false
}
