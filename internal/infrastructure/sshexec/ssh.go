package sshexec

import (
	"context"
	std_errors "errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// SSHExecutor implements Executor over password-authenticated SSH
// sessions with a PTY, so remote tools that prompt interactively
// (sudo, bench) behave as they would for a human operator.
type SSHExecutor struct {
	probeTimeout time.Duration
	dialTimeout  time.Duration
	logger       logger.Interface
}

// NewSSHExecutor creates an executor using the configured timeouts.
func NewSSHExecutor(cfg *config.SSHConfig, log logger.Interface) *SSHExecutor {
	return &SSHExecutor{
		probeTimeout: cfg.ProbeTimeout(),
		dialTimeout:  cfg.DialTimeout(),
		logger:       log.With("component", "sshexec"),
	}
}

// Probe checks that the SSH port accepts TCP connections. This is the
// cheap liveness test used before attempting a full handshake.
func (e *SSHExecutor) Probe(ctx context.Context, target Target) error {
	addr := net.JoinHostPort(target.Host, fmt.Sprintf("%d", target.Port))

	d := net.Dialer{Timeout: e.probeTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.NewUnreachableError(fmt.Sprintf("host %s is unreachable", target.Host))
	}
	_ = conn.Close()
	return nil
}

// Run executes the command under a PTY, answering known prompts, and
// returns the combined output.
func (e *SSHExecutor) Run(ctx context.Context, target Target, command string, timeout time.Duration) (Result, error) {
	start := time.Now()

	if err := e.Probe(ctx, target); err != nil {
		return Result{}, err
	}

	client, err := e.dial(target)
	if err != nil {
		return Result{}, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("xterm", 80, 200, modes); err != nil {
		return Result{}, fmt.Errorf("failed to request pty: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open stdin: %w", err)
	}
	// With a PTY, stderr is folded into stdout.
	stdout, err := session.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open stdout: %w", err)
	}

	if err := session.Start(command); err != nil {
		return Result{}, fmt.Errorf("failed to start command: %w", err)
	}

	var (
		mu        sync.Mutex
		output    strings.Builder
		responder = NewPromptResponder(target.Password)
	)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		buf := make([]byte, 4096)
		for {
			n, readErr := stdout.Read(buf)
			if n > 0 {
				chunk := string(buf[:n])
				mu.Lock()
				output.WriteString(chunk)
				mu.Unlock()
				if answer, ok := responder.Respond(chunk); ok {
					_, _ = io.WriteString(stdin, answer)
				}
			}
			if readErr != nil {
				return
			}
		}
	}()

	waitDone := make(chan error, 1)
	go func() {
		<-readDone
		waitDone <- session.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-waitDone:
		mu.Lock()
		out := output.String()
		mu.Unlock()
		duration := time.Since(start)

		if err != nil {
			var exitErr *ssh.ExitError
			if std_errors.As(err, &exitErr) {
				e.logger.Warnw("remote command failed",
					"host", target.Host,
					"exit_code", exitErr.ExitStatus(),
					"duration", duration)
				return Result{Output: out, ExitCode: exitErr.ExitStatus(), Duration: duration},
					errors.NewCommandFailedError(exitErr.ExitStatus(), out)
			}
			return Result{Output: out, ExitCode: -1, Duration: duration},
				fmt.Errorf("remote command terminated abnormally: %w", err)
		}

		e.logger.Debugw("remote command completed",
			"host", target.Host,
			"duration", duration)
		return Result{Output: out, ExitCode: 0, Duration: duration}, nil

	case <-timer.C:
		session.Close()
		mu.Lock()
		out := output.String() + TimeoutMarker
		mu.Unlock()
		e.logger.Warnw("remote command timed out",
			"host", target.Host,
			"timeout", timeout)
		return Result{Output: out, ExitCode: -1, Duration: time.Since(start)},
			errors.NewTimeoutError(fmt.Sprintf("command exceeded %s on host %s", timeout, target.Host))

	case <-ctx.Done():
		session.Close()
		mu.Lock()
		out := output.String() + TimeoutMarker
		mu.Unlock()
		return Result{Output: out, ExitCode: -1, Duration: time.Since(start)}, ctx.Err()
	}
}

func (e *SSHExecutor) dial(target Target) (*ssh.Client, error) {
	cfg := &ssh.ClientConfig{
		User: target.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(target.Password),
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = target.Password
				}
				return answers, nil
			}),
		},
		// Fleet hosts are provisioned and rotated by this system, so
		// host keys are not pinned.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         e.dialTimeout,
	}

	addr := net.JoinHostPort(target.Host, fmt.Sprintf("%d", target.Port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") ||
			strings.Contains(err.Error(), "no supported methods remain") {
			return nil, errors.NewAuthenticationError(fmt.Sprintf("authentication failed for %s@%s", target.Username, target.Host))
		}
		return nil, errors.NewUnreachableError(fmt.Sprintf("ssh dial failed for host %s", target.Host))
	}
	return client, nil
}
