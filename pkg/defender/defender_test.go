package defender

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStateString pins the names reported for the Defender preference values.
func TestStateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Disabled", StateDisabled.String())
	require.Equal(t, "Enabled", StateEnabled.String())
	require.Equal(t, "AuditMode", StateAudit.String())
	require.Equal(t, "Unknown(7)", State(7).String())
}
