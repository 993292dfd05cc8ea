//go:build windows
// +build windows

package wsus

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// runPowerShell executes a PowerShell script body with a hidden window.
func runPowerShell(ctx context.Context, script string) (string, error) {
	shell := filepath.Join(os.Getenv("WINDIR"), "system32", "WindowsPowershell", "v1.0", "powershell.exe")
	cmd := exec.CommandContext(ctx, shell,
		"-NoLogo",
		"-NoProfile",
		"-NonInteractive",
		"-Command", script,
	)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow: true,
	}

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("powershell execution failed: %w | stderr: %s", err, stderr.String())
	}
	return out.String(), nil
}
