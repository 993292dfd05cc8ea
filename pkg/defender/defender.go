// pkg/defender/defender.go - Windows Defender Controlled Folder Access toggle.
//
// Controlled Folder Access can block installers from writing into protected
// directories, so bulk installs disable it up front and re-enable it when
// done. Both operations are best-effort: the toggle is an optimization, not
// a correctness requirement, and callers are expected to suppress failures.

package defender

import (
	"context"
	"fmt"
	"time"
)

// State mirrors the EnableControlledFolderAccess values reported by the
// Defender MSFT_MpPreference WMI class.
type State uint8

const (
	StateDisabled State = 0
	StateEnabled  State = 1
	StateAudit    State = 2
)

// String returns a human-readable form of the state.
func (s State) String() string {
	switch s {
	case StateDisabled:
		return "Disabled"
	case StateEnabled:
		return "Enabled"
	case StateAudit:
		return "AuditMode"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// FolderProtection toggles Controlled Folder Access through Set-MpPreference.
type FolderProtection struct {
	timeout time.Duration
}

// NewFolderProtection returns a toggle with a sensible command timeout.
func NewFolderProtection() *FolderProtection {
	return &FolderProtection{timeout: 2 * time.Minute}
}

// Disable turns Controlled Folder Access off.
func (f *FolderProtection) Disable(ctx context.Context) error {
	return f.set(ctx, "Disabled")
}

// Enable turns Controlled Folder Access back on.
func (f *FolderProtection) Enable(ctx context.Context) error {
	return f.set(ctx, "Enabled")
}

func (f *FolderProtection) set(ctx context.Context, mode string) error {
	runCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	command := fmt.Sprintf("Set-MpPreference -EnableControlledFolderAccess %s", mode)
	if output, err := runPowerShell(runCtx, command); err != nil {
		return fmt.Errorf("failed to set Controlled Folder Access to %s: %w (output: %s)", mode, err, output)
	}
	return nil
}
