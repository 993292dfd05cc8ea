// pkg/chocolatey/chocolatey.go - silent Chocolatey invocation with strict and
// relaxed verification tiers.

package chocolatey

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"

	"github.com/windowsadmins/patchkit/pkg/logging"
)

// MinimumVersion is the oldest Chocolatey release that understands the
// --no-progress flag used by the silent install tier.
const MinimumVersion = "0.10.4"

// Chocolatey drives choco.exe. The zero value is not usable; construct with New.
type Chocolatey struct {
	path    string
	timeout time.Duration
}

// New returns a Chocolatey bound to the given choco.exe path. An empty path
// falls back to the standard ProgramData location.
func New(path string, timeout time.Duration) *Chocolatey {
	if path == "" {
		path = filepath.Join(os.Getenv("ProgramData"), "chocolatey", "bin", "choco.exe")
	}
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	return &Chocolatey{path: path, timeout: timeout}
}

// Path returns the configured choco.exe location.
func (c *Chocolatey) Path() string {
	return c.path
}

// IsAvailable checks whether choco.exe exists at the configured path.
func (c *Chocolatey) IsAvailable() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// installArgs builds the choco argument list for a single package.
// The strict tier accepts licenses, limits output, suppresses download
// progress, forces reinstallation and applies machine-wide install
// arguments; the relaxed tier additionally disables checksum validation.
func installArgs(pkg string, ignoreChecksums bool) []string {
	args := []string{
		"install", pkg,
		"--yes",
		"--limit-output",
		"--no-progress",
		"--force",
		"--install-arguments=ALLUSERS=1",
	}
	if ignoreChecksums {
		args = append(args, "--ignore-checksums")
	}
	return args
}

// InstallStrict installs a package with checksum validation enabled.
func (c *Chocolatey) InstallStrict(ctx context.Context, pkg string) error {
	return c.install(ctx, pkg, false)
}

// InstallRelaxed installs a package with checksum validation disabled.
// This is the deliberately less-secure fallback for packages whose upstream
// checksums drift, e.g. "latest" pinned installers.
func (c *Chocolatey) InstallRelaxed(ctx context.Context, pkg string) error {
	return c.install(ctx, pkg, true)
}

func (c *Chocolatey) install(ctx context.Context, pkg string, ignoreChecksums bool) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	output, err := runCMD(runCtx, c.path, installArgs(pkg, ignoreChecksums))
	if err != nil {
		logging.Debug("choco install output for %s:\n%s", pkg, output)
		return fmt.Errorf("choco install %s failed: %w", pkg, err)
	}
	logging.Debug("choco install output for %s:\n%s", pkg, output)
	return nil
}

// InstalledVersion returns the version reported by `choco --version`.
func (c *Chocolatey) InstalledVersion(ctx context.Context) (*goversion.Version, error) {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	output, err := runCMD(runCtx, c.path, []string{"--version", "--limit-output"})
	if err != nil {
		return nil, fmt.Errorf("failed to query choco version: %w", err)
	}
	return ParseVersionOutput(output)
}

// CheckMinimumVersion verifies the installed Chocolatey is recent enough for
// the flag set used by the silent install tiers.
func (c *Chocolatey) CheckMinimumVersion(ctx context.Context) error {
	installed, err := c.InstalledVersion(ctx)
	if err != nil {
		return err
	}

	minimum := goversion.Must(goversion.NewVersion(MinimumVersion))
	if installed.LessThan(minimum) {
		return fmt.Errorf("chocolatey %s is older than the required minimum %s", installed, minimum)
	}
	return nil
}

// ParseVersionOutput extracts a semantic version from `choco --version`
// output. Chocolatey may prepend warning lines, so the last non-empty line
// that parses as a version wins.
func ParseVersionOutput(output string) (*goversion.Version, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(lines[i])
		if candidate == "" {
			continue
		}
		if v, err := goversion.NewVersion(candidate); err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no version found in choco output: %q", output)
}
