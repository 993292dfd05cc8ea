//go:build !windows
// +build !windows

package utils

// PatchWindowsArgs is a no-op where the OS delivers os.Args pre-split.
func PatchWindowsArgs() {}
