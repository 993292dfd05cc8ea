package chocolatey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestInstallArgsStrictTier pins the silent flag set used for the strict
// attempt: license acceptance, limited output, no progress, force and
// machine-wide install arguments, with checksum validation left enabled.
func TestInstallArgsStrictTier(t *testing.T) {
	t.Parallel()

	args := installArgs("googlechrome", false)

	require.Equal(t, []string{
		"install", "googlechrome",
		"--yes",
		"--limit-output",
		"--no-progress",
		"--force",
		"--install-arguments=ALLUSERS=1",
	}, args)
	require.NotContains(t, args, "--ignore-checksums")
}

// TestInstallArgsRelaxedTier verifies the relaxed tier only differs from the
// strict one by disabling checksum validation.
func TestInstallArgsRelaxedTier(t *testing.T) {
	t.Parallel()

	strict := installArgs("vlc", false)
	relaxed := installArgs("vlc", true)

	require.Equal(t, append(strict, "--ignore-checksums"), relaxed)
}

// TestNewDefaults verifies the fallback path and timeout applied by New.
func TestNewDefaults(t *testing.T) {
	t.Parallel()

	c := New("", 0)
	require.Contains(t, c.Path(), "choco")
	require.Equal(t, 15*time.Minute, c.timeout)

	custom := New(`D:\tools\choco.exe`, 5*time.Minute)
	require.Equal(t, `D:\tools\choco.exe`, custom.Path())
	require.Equal(t, 5*time.Minute, custom.timeout)
}

// TestParseVersionOutput covers clean output, noisy output with warning
// lines, and output with no version at all.
func TestParseVersionOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "clean",
			output: "2.2.2\r\n",
			want:   "2.2.2",
		},
		{
			name:   "warning lines before version",
			output: "Chocolatey detected you are not running from an elevated command shell\n1.4.0\n",
			want:   "1.4.0",
		},
		{
			name:    "no version",
			output:  "command not found",
			wantErr: true,
		},
		{
			name:    "empty",
			output:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := ParseVersionOutput(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, v.String())
		})
	}
}
