// pkg/process/process.go - detection of conflicting installer processes.

package process

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/windowsadmins/patchkit/pkg/logging"
)

// installerProcessNames are executables that indicate a package install is
// already in flight. Starting a second bulk run while one of these is active
// risks corrupting the Chocolatey lib directory.
var installerProcessNames = []string{
	"choco.exe",
	"chocolatey.exe",
	"msiexec.exe",
}

// IsProcessRunning checks if a process with the given executable name is
// currently running. Matching is case-insensitive, with or without ".exe".
func IsProcessRunning(name string) bool {
	processes, err := process.Processes()
	if err != nil {
		logging.Error("Failed to get process list: %v", err)
		return false
	}

	cleanName := strings.ToLower(name)

	for _, proc := range processes {
		procName, err := proc.Name()
		if err != nil {
			continue
		}

		processName := strings.ToLower(procName)
		if processName == cleanName || processName == cleanName+".exe" {
			logging.Debug("Found running process: %s (pid %d)", procName, proc.Pid)
			return true
		}
	}

	return false
}

// RunningInstallers returns the names of known installer processes that are
// currently active. An empty slice means it is safe to start installing.
func RunningInstallers() []string {
	var running []string
	for _, name := range installerProcessNames {
		if IsProcessRunning(name) {
			running = append(running, name)
		}
	}
	return running
}
