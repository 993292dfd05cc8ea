// pkg/orchestrator/orchestrator.go - the bulk install loop.
//
// For an ordered package list the orchestrator runs a two-tier install per
// package: a strict attempt with checksum validation, then on failure a
// single relaxed attempt with validation disabled. A per-package failure
// never aborts the run. Folder protection is disabled before the first
// attempt and unconditionally re-enabled after the last one.

package orchestrator

import (
	"context"

	"github.com/windowsadmins/patchkit/pkg/logging"
)

// Installer invokes the package manager for a single package.
type Installer interface {
	// InstallStrict installs with checksum validation enabled.
	InstallStrict(ctx context.Context, pkg string) error
	// InstallRelaxed installs with checksum validation disabled.
	InstallRelaxed(ctx context.Context, pkg string) error
}

// ProtectionToggle is the scoped acquire/release pair wrapping the install
// loop. Both operations are best-effort; the orchestrator downgrades their
// errors to warnings.
type ProtectionToggle interface {
	Disable(ctx context.Context) error
	Enable(ctx context.Context) error
}

// AttemptResult describes the terminal outcome for one package.
type AttemptResult int

const (
	// Success means the strict attempt succeeded.
	Success AttemptResult = iota
	// FailedStrict means the strict attempt failed and the relaxed
	// attempt succeeded.
	FailedStrict
	// FailedBoth means both attempts failed.
	FailedBoth
)

// String returns the string representation of the AttemptResult.
func (r AttemptResult) String() string {
	switch r {
	case Success:
		return "Success"
	case FailedStrict:
		return "FailedStrict"
	case FailedBoth:
		return "FailedBoth"
	default:
		return "Unknown"
	}
}

// Installed reports whether the package ended up installed.
func (r AttemptResult) Installed() bool {
	return r == Success || r == FailedStrict
}

// PackageResult pairs a package identifier with its terminal outcome.
type PackageResult struct {
	Name   string
	Result AttemptResult
	Err    error // terminal error, set only for FailedBoth
}

// Summary totals one orchestrator run.
type Summary struct {
	Results   []PackageResult
	Attempted int
	Installed int
	Failed    int
}

// ProgressFunc receives the 1-based completed count after every package,
// regardless of its outcome.
type ProgressFunc func(completed, total int)

// Orchestrator runs the install loop. Construct with New; all collaborators
// are explicit, nothing is read from ambient process state.
type Orchestrator struct {
	installer Installer
	toggle    ProtectionToggle
	progress  ProgressFunc
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithProtectionToggle wires a folder-protection toggle around the run.
func WithProtectionToggle(toggle ProtectionToggle) Option {
	return func(o *Orchestrator) {
		o.toggle = toggle
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// New returns an Orchestrator using the given installer.
func New(installer Installer, opts ...Option) *Orchestrator {
	o := &Orchestrator{installer: installer}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run attempts to install every package in order and returns a summary.
// Packages are attempted exactly once each (duplicates in the list are
// attempted twice); a failure on one never prevents attempts on the rest.
func (o *Orchestrator) Run(ctx context.Context, packages []string) Summary {
	if o.toggle != nil {
		if err := o.toggle.Disable(ctx); err != nil {
			logging.Warn("Failed to disable folder protection, continuing anyway: %v", err)
		}
		// Re-enable must happen even when the run context is already
		// canceled, so the release uses a detached context.
		defer func() {
			if err := o.toggle.Enable(context.WithoutCancel(ctx)); err != nil {
				logging.Warn("Failed to re-enable folder protection: %v", err)
			}
		}()
	}

	total := len(packages)
	summary := Summary{Results: make([]PackageResult, 0, total)}

	for _, pkg := range packages {
		if ctx.Err() != nil {
			logging.Warn("Run canceled, skipping remaining %d packages", total-summary.Attempted)
			break
		}
		result := o.installOne(ctx, pkg)
		summary.Results = append(summary.Results, result)
		summary.Attempted++
		if result.Result.Installed() {
			summary.Installed++
		} else {
			summary.Failed++
		}

		completed := summary.Attempted
		logging.Info("Progress: %d/%d (%d%%)", completed, total, percent(completed, total))
		if o.progress != nil {
			o.progress(completed, total)
		}
	}

	return summary
}

// installOne runs the two-tier strategy for a single package:
// NotStarted -> StrictAttempt -> Success
//            |  StrictFailed -> RelaxedAttempt -> Success | Failed.
func (o *Orchestrator) installOne(ctx context.Context, pkg string) PackageResult {
	logging.Info("Installing %s...", pkg)

	strictErr := o.installer.InstallStrict(ctx, pkg)
	if strictErr == nil {
		logging.Info("Installed %s", pkg)
		return PackageResult{Name: pkg, Result: Success}
	}

	logging.Warn("Strict install of %s failed, retrying with checksum validation disabled: %v", pkg, strictErr)

	relaxedErr := o.installer.InstallRelaxed(ctx, pkg)
	if relaxedErr == nil {
		logging.Info("Installed %s without checksum validation", pkg)
		return PackageResult{Name: pkg, Result: FailedStrict}
	}

	logging.Warn("Failed to install %s: %v", pkg, relaxedErr)
	return PackageResult{Name: pkg, Result: FailedBoth, Err: relaxedErr}
}

func percent(completed, total int) int {
	if total == 0 {
		return 100
	}
	return completed * 100 / total
}
