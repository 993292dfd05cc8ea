//go:build windows
// +build windows

package chocolatey

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
)

// runCMD executes a command and its arguments with a hidden console window.
func runCMD(ctx context.Context, command string, arguments []string) (string, error) {
	cmd := exec.CommandContext(ctx, command, arguments...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow: true,
	}

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Capture BOTH error (which has exit status) and stderr
		combinedErr := fmt.Errorf("command execution failed: %w | stderr: %s", err, stderr.String())
		return out.String(), combinedErr
	}
	return out.String(), nil
}
