package sshexec

import (
	"context"
	"time"
)

// Target identifies a remote host and the credentials to reach it. The
// password arrives here already decrypted; callers resolve it just in
// time and must not persist it.
type Target struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Result is the outcome of a completed remote command.
type Result struct {
	// Output is the combined stdout and stderr as produced under the PTY,
	// including any prompt text and injected responses.
	Output   string
	ExitCode int
	Duration time.Duration
}

// Executor runs shell commands on remote hosts.
type Executor interface {
	// Probe checks TCP reachability of the SSH port without
	// authenticating. Returns an unreachable error when the host does
	// not accept connections.
	Probe(ctx context.Context, target Target) error

	// Run executes a command on the target and returns its combined
	// output. A nonzero exit status yields a command failed error, a
	// deadline overrun yields a timeout error with the partial output
	// collected so far.
	Run(ctx context.Context, target Target, command string, timeout time.Duration) (Result, error)
}
