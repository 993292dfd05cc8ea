//go:build !windows
// +build !windows

package defender

import (
	"context"
	"fmt"
)

func runPowerShell(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("PowerShell execution is only available on Windows")
}
