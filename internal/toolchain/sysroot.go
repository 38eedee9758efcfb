package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// DefaultSysrootTimeout bounds the compiler invocation when none is configured.
const DefaultSysrootTimeout = 10 * time.Second

var (
	// ErrProcessFailed is returned when the compiler cannot be started or
	// exits with a non-zero status.
	ErrProcessFailed = errors.New("external process failed")
	// ErrProcessTimeout is returned when the compiler outlives the timeout.
	ErrProcessTimeout = errors.New("external process timed out")
)

// Sysroot runs `<compiler> --print sysroot` and returns its trimmed stdout.
// compiler may carry extra arguments (e.g. "rustup run nightly rustc").
// There is no retry.
func Sysroot(ctx context.Context, compiler string, timeout time.Duration) (string, error) {
	argv, err := shlex.Split(compiler)
	if err != nil {
		return "", fmt.Errorf("%w: parse compiler command %q: %w", ErrProcessFailed, compiler, err)
	}
	if len(argv) == 0 {
		return "", fmt.Errorf("%w: empty compiler command", ErrProcessFailed)
	}
	if timeout <= 0 {
		timeout = DefaultSysrootTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(argv[1:], "--print", "sysroot")
	cmd := exec.CommandContext(ctx, argv[0], args...) // #nosec G204 -- compiler command is user configuration
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s after %s", ErrProcessTimeout, argv[0], timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("%w: %s: %w", ErrProcessFailed, argv[0], err)
		}
		return "", fmt.Errorf("%w: %s: %w: %s", ErrProcessFailed, argv[0], err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}
