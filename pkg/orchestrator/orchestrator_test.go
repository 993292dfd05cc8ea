package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeInstaller scripts per-package outcomes and records every invocation.
type fakeInstaller struct {
	strictFails  map[string]bool
	relaxedFails map[string]bool

	strictCalls  []string
	relaxedCalls []string
}

func newFakeInstaller() *fakeInstaller {
	return &fakeInstaller{
		strictFails:  make(map[string]bool),
		relaxedFails: make(map[string]bool),
	}
}

func (f *fakeInstaller) InstallStrict(_ context.Context, pkg string) error {
	f.strictCalls = append(f.strictCalls, pkg)
	if f.strictFails[pkg] {
		return errors.New("checksum mismatch")
	}
	return nil
}

func (f *fakeInstaller) InstallRelaxed(_ context.Context, pkg string) error {
	f.relaxedCalls = append(f.relaxedCalls, pkg)
	if f.relaxedFails[pkg] {
		return errors.New("installer exited with code 1")
	}
	return nil
}

// fakeToggle counts acquire/release calls and records their ordering
// relative to install attempts.
type fakeToggle struct {
	installer *fakeInstaller

	disableCalls int
	enableCalls  int

	attemptsAtDisable int
	attemptsAtEnable  int

	disableErr error
	enableErr  error
}

func (f *fakeToggle) Disable(_ context.Context) error {
	f.disableCalls++
	f.attemptsAtDisable = len(f.installer.strictCalls)
	return f.disableErr
}

func (f *fakeToggle) Enable(_ context.Context) error {
	f.enableCalls++
	f.attemptsAtEnable = len(f.installer.strictCalls)
	return f.enableErr
}

// TestRunAttemptsEveryPackage verifies that every package in the list is
// attempted and counted exactly once, regardless of outcome.
func TestRunAttemptsEveryPackage(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	installer.strictFails["b"] = true
	installer.relaxedFails["b"] = true
	installer.strictFails["d"] = true

	var progress []int
	o := New(installer, WithProgress(func(completed, _ int) {
		progress = append(progress, completed)
	}))

	packages := []string{"a", "b", "c", "d", "e"}
	summary := o.Run(context.Background(), packages)

	require.Equal(t, len(packages), summary.Attempted)
	require.Equal(t, packages, installer.strictCalls)
	require.Equal(t, []int{1, 2, 3, 4, 5}, progress)
	require.Equal(t, 4, summary.Installed)
	require.Equal(t, 1, summary.Failed)
}

// TestRunStrictSuccessSkipsRelaxed verifies the relaxed tier is never
// invoked for a package whose strict attempt succeeded.
func TestRunStrictSuccessSkipsRelaxed(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	o := New(installer)

	summary := o.Run(context.Background(), []string{"a"})

	require.Empty(t, installer.relaxedCalls)
	require.Equal(t, Success, summary.Results[0].Result)
	require.NoError(t, summary.Results[0].Err)
}

// TestRunStrictFailureTriggersOneRelaxedAttempt verifies the fallback is a
// single-level retry: exactly one relaxed attempt per strict failure.
func TestRunStrictFailureTriggersOneRelaxedAttempt(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	installer.strictFails["a"] = true
	o := New(installer)

	summary := o.Run(context.Background(), []string{"a"})

	require.Equal(t, []string{"a"}, installer.relaxedCalls)
	require.Equal(t, FailedStrict, summary.Results[0].Result)
	require.True(t, summary.Results[0].Result.Installed())
}

// TestRunToggleScopedAroundLoop verifies the protection toggle is disabled
// once before the first attempt and enabled once after the last, even when
// every package fails.
func TestRunToggleScopedAroundLoop(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	installer.strictFails["a"] = true
	installer.relaxedFails["a"] = true
	installer.strictFails["b"] = true
	installer.relaxedFails["b"] = true

	toggle := &fakeToggle{installer: installer}
	o := New(installer, WithProtectionToggle(toggle))

	summary := o.Run(context.Background(), []string{"a", "b"})

	require.Equal(t, 1, toggle.disableCalls)
	require.Equal(t, 1, toggle.enableCalls)
	require.Equal(t, 0, toggle.attemptsAtDisable, "disable must precede the first attempt")
	require.Equal(t, 2, toggle.attemptsAtEnable, "enable must follow the last attempt")
	require.Equal(t, 2, summary.Failed)
}

// TestRunToggleErrorsAreSuppressed verifies toggle failures never abort the
// run: the loop still attempts every package.
func TestRunToggleErrorsAreSuppressed(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	toggle := &fakeToggle{
		installer:  installer,
		disableErr: errors.New("tamper protection enabled"),
		enableErr:  errors.New("tamper protection enabled"),
	}
	o := New(installer, WithProtectionToggle(toggle))

	summary := o.Run(context.Background(), []string{"a", "b"})

	require.Equal(t, 2, summary.Attempted)
	require.Equal(t, 2, summary.Installed)
	require.Equal(t, 1, toggle.disableCalls)
	require.Equal(t, 1, toggle.enableCalls)
}

// TestRunFailureDoesNotStopLaterPackages verifies a failure on package i
// never prevents attempts on packages i+1..N.
func TestRunFailureDoesNotStopLaterPackages(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	installer.strictFails["a"] = true
	installer.relaxedFails["a"] = true
	o := New(installer)

	summary := o.Run(context.Background(), []string{"a", "b", "c"})

	require.Equal(t, []string{"a", "b", "c"}, installer.strictCalls)
	require.Equal(t, FailedBoth, summary.Results[0].Result)
	require.Equal(t, Success, summary.Results[1].Result)
	require.Equal(t, Success, summary.Results[2].Result)
}

// TestRunDuplicatesAttemptedTwice verifies the list is not deduplicated.
func TestRunDuplicatesAttemptedTwice(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	o := New(installer)

	summary := o.Run(context.Background(), []string{"a", "a"})

	require.Equal(t, []string{"a", "a"}, installer.strictCalls)
	require.Equal(t, 2, summary.Attempted)
}

// TestRunMixedScenario: "A" succeeds strictly, "B" succeeds on the relaxed
// retry; both are installed, the counter reaches 2 and the toggle cycles
// exactly once.
func TestRunMixedScenario(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	installer.strictFails["B"] = true

	toggle := &fakeToggle{installer: installer}
	var lastCompleted, lastTotal int
	o := New(installer,
		WithProtectionToggle(toggle),
		WithProgress(func(completed, total int) {
			lastCompleted, lastTotal = completed, total
		}))

	summary := o.Run(context.Background(), []string{"A", "B"})

	require.Equal(t, Success, summary.Results[0].Result)
	require.Equal(t, FailedStrict, summary.Results[1].Result)
	require.Equal(t, 2, summary.Installed)
	require.Zero(t, summary.Failed)
	require.Equal(t, 2, lastCompleted)
	require.Equal(t, 2, lastTotal)
	require.Equal(t, 1, toggle.disableCalls)
	require.Equal(t, 1, toggle.enableCalls)
}

// TestRunAllTiersFail: one package failing both tiers yields one failed
// result, a counter of 1 and a re-enabled toggle.
func TestRunAllTiersFail(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	installer.strictFails["X"] = true
	installer.relaxedFails["X"] = true

	toggle := &fakeToggle{installer: installer}
	o := New(installer, WithProtectionToggle(toggle))

	summary := o.Run(context.Background(), []string{"X"})

	require.Equal(t, 1, summary.Attempted)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, FailedBoth, summary.Results[0].Result)
	require.Error(t, summary.Results[0].Err)
	require.Equal(t, 1, toggle.enableCalls)
}

// TestRunEmptyList verifies a zero-length list completes without attempts.
func TestRunEmptyList(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	toggle := &fakeToggle{installer: installer}
	o := New(installer, WithProtectionToggle(toggle))

	summary := o.Run(context.Background(), nil)

	require.Zero(t, summary.Attempted)
	require.Empty(t, installer.strictCalls)
	require.Equal(t, 1, toggle.disableCalls)
	require.Equal(t, 1, toggle.enableCalls)
}

// TestRunCanceledContextStillReenables verifies that cancellation skips the
// remaining packages but the toggle release still happens.
func TestRunCanceledContextStillReenables(t *testing.T) {
	t.Parallel()

	installer := newFakeInstaller()
	toggle := &fakeToggle{installer: installer}
	o := New(installer, WithProtectionToggle(toggle))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := o.Run(ctx, []string{"a", "b"})

	require.Zero(t, summary.Attempted)
	require.Empty(t, installer.strictCalls)
	require.Equal(t, 1, toggle.enableCalls)
}

// TestAttemptResultString pins the result names used in run summaries.
func TestAttemptResultString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Success", Success.String())
	require.Equal(t, "FailedStrict", FailedStrict.String())
	require.Equal(t, "FailedBoth", FailedBoth.String())
	require.True(t, FailedStrict.Installed())
	require.False(t, FailedBoth.Installed())
}
