//go:build !windows
// +build !windows

package logging

// enableColors is a no-op on platforms whose terminals handle ANSI
// sequences natively.
func enableColors() {}
