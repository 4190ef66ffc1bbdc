package errhandler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/remote"
	"github.com/hance08/leaf/internal/syncer"
)

func TestIsInterrupt(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{terminal.InterruptErr, true},
		{fmt.Errorf("prompt: %w", huh.ErrUserAborted), true},
		{errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := IsInterrupt(tt.err); got != tt.want {
			t.Errorf("IsInterrupt(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestHint(t *testing.T) {
	partial := &currency.PartialMigrationError{Migrated: 2, Remaining: 3, Err: errors.New("disk full")}
	if got := Hint(fmt.Errorf("migrate: %w", partial)); !strings.Contains(got, "3 transaction") {
		t.Errorf("partial migration hint = %q", got)
	}
	if got := Hint(syncer.ErrBusy); got == "" {
		t.Error("expected a hint for ErrBusy")
	}
	if got := Hint(syncer.ErrAuthRequired); got != "Sign in with `leaf login`" {
		t.Errorf("auth required hint = %q", got)
	}
	expired := fmt.Errorf("sync: %w: %w", syncer.ErrAuthRequired, remote.ErrUnauthorized)
	if got := Hint(expired); !strings.Contains(got, "sign in again") {
		t.Errorf("rejected session hint = %q", got)
	}
	if got := Hint(errors.New("other")); got != "" {
		t.Errorf("unexpected hint %q", got)
	}
}

func TestHandleErrorExitCode(t *testing.T) {
	if code := HandleError(terminal.InterruptErr); code != 0 {
		t.Errorf("interrupt exit code = %d, want 0", code)
	}
	if code := HandleError(errors.New("boom")); code != 1 {
		t.Errorf("error exit code = %d, want 1", code)
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("failed to sync"); got != "Failed to sync" {
		t.Errorf("capitalize = %q", got)
	}
	if got := capitalize(""); got != "" {
		t.Errorf("capitalize empty = %q", got)
	}
}
