//go:build !windows
// +build !windows

package utils

import "errors"

// AdminCheck reports administrative privileges on Windows; elsewhere the
// managed tooling cannot run at all.
func AdminCheck() (bool, error) {
	return false, errors.New("administrative privilege checks are only available on Windows")
}
