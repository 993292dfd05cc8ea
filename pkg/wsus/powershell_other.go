//go:build !windows
// +build !windows

package wsus

import (
	"context"
	"fmt"
)

func runPowerShell(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("WSUS administration is only available on Windows")
}
