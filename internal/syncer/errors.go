package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/hance08/leaf/internal/remote"
)

var (
	ErrAuthRequired       = errors.New("sign in required")
	ErrTransport          = errors.New("remote replica unreachable")
	ErrBusy               = errors.New("another sync, resolve or migration is in progress")
	ErrNoPendingConflicts = errors.New("no pending conflicts to resolve")
	ErrInvalidChoice      = errors.New("invalid conflict choice")
	ErrSessionClosed      = errors.New("session closed before sync finished")
)

// remoteErr classifies a remote store failure for the caller.
func remoteErr(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, ErrSessionClosed, err)
	case errors.Is(err, remote.ErrUnauthorized), errors.Is(err, remote.ErrForbidden):
		return fmt.Errorf("%s: %w: %w", op, ErrAuthRequired, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
}
