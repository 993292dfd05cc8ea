//go:build !windows
// +build !windows

package defender

import (
	"context"
	"fmt"
)

// State is only available on Windows where the Defender WMI namespace exists.
func (f *FolderProtection) State(_ context.Context) (State, error) {
	return StateDisabled, fmt.Errorf("Defender preference queries are only available on Windows")
}
