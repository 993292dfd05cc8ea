//go:build !windows
// +build !windows

package config

import "fmt"

// LoadConfigFromCSP is only meaningful on Windows where CSP OMA-URI
// policies land in the registry.
func LoadConfigFromCSP() (*Configuration, error) {
	return nil, fmt.Errorf("CSP registry configuration is only available on Windows")
}
