package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionDefaults verifies that without build flags every field reports
// "unknown" rather than an empty string.
func TestVersionDefaults(t *testing.T) {
	t.Parallel()

	v := Version()
	require.Equal(t, "unknown", v.Version)
	require.Equal(t, "unknown", v.Branch)
	require.Equal(t, "unknown", v.Revision)
	require.Equal(t, "unknown", v.GoVersion)
	require.Equal(t, "unknown", v.BuildDate)
}
