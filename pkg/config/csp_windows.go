//go:build windows
// +build windows

// pkg/config/csp_windows.go - CSP OMA-URI registry fallback for managed devices.

package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// LoadConfigFromCSP loads configuration from Windows CSP OMA-URI registry settings.
// This serves as a fallback when the Config.yaml file doesn't exist.
func LoadConfigFromCSP() (*Configuration, error) {
	// Start with default configuration
	config := GetDefaultConfig()

	if err := loadCSPFromRegistryPath(CSPRegistryPath, config); err != nil {
		return nil, fmt.Errorf("failed to load from CSP registry path: %v", err)
	}

	log.Printf("Loaded CSP configuration from registry path: %s", CSPRegistryPath)

	applyDefaults(config)
	if err := ensureDirectories(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadCSPFromRegistryPath loads configuration values from a specific registry path.
func loadCSPFromRegistryPath(registryPath string, config *Configuration) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, registryPath, registry.READ)
	if err != nil {
		return fmt.Errorf("failed to open CSP registry key %s: %v", registryPath, err)
	}
	defer key.Close()

	// Load string configuration values
	loadStringFromRegistry(key, "ChocolateyPath", &config.ChocolateyPath)
	loadStringFromRegistry(key, "WsusServer", &config.WsusServer)
	loadStringFromRegistry(key, "LogPath", &config.LogPath)
	loadStringFromRegistry(key, "LogLevel", &config.LogLevel)

	// Load integer configuration values
	loadIntFromRegistry(key, "InstallerTimeoutMinutes", &config.InstallerTimeoutMinutes)
	loadIntFromRegistry(key, "WsusPort", &config.WsusPort)

	// Load boolean configuration values
	loadBoolFromRegistry(key, "Debug", &config.Debug)
	loadBoolFromRegistry(key, "Verbose", &config.Verbose)
	loadBoolFromRegistry(key, "CheckOnly", &config.CheckOnly)
	loadBoolFromRegistry(key, "WsusUseSSL", &config.WsusUseSSL)
	loadBoolFromRegistry(key, "ToggleFolderProtection", &config.ToggleFolderProtection)
	loadBoolFromRegistry(key, "NoPreflight", &config.NoPreflight)
	loadBoolFromRegistry(key, "NoPostflight", &config.NoPostflight)

	// Load array configuration values
	loadStringArrayFromRegistry(key, "Packages", &config.Packages)
	loadStringArrayFromRegistry(key, "TargetGroups", &config.TargetGroups)

	return nil
}

// loadStringFromRegistry loads a string value from registry if it exists.
func loadStringFromRegistry(key registry.Key, valueName string, target *string) {
	if val, _, err := key.GetStringValue(valueName); err == nil && val != "" {
		*target = val
		log.Printf("CSP: Loaded %s = %s", valueName, val)
	}
}

// loadBoolFromRegistry loads a boolean value from registry if it exists.
// Accepts various formats: "true"/"false", "1"/"0", DWORD 1/0
func loadBoolFromRegistry(key registry.Key, valueName string, target *bool) {
	// Try string value first
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.ParseBool(val); parseErr == nil {
			*target = parsed
			log.Printf("CSP: Loaded %s = %t", valueName, parsed)
			return
		}
	}

	// Try DWORD value
	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = val != 0
		log.Printf("CSP: Loaded %s = %t", valueName, val != 0)
	}
}

// loadIntFromRegistry loads an integer value from registry if it exists.
func loadIntFromRegistry(key registry.Key, valueName string, target *int) {
	// Try string value first
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.Atoi(val); parseErr == nil {
			*target = parsed
			log.Printf("CSP: Loaded %s = %d", valueName, parsed)
			return
		}
	}

	// Try DWORD value
	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = int(val)
		log.Printf("CSP: Loaded %s = %d", valueName, int(val))
	}
}

// loadStringArrayFromRegistry loads a string array from registry.
// Arrays can be stored as comma-separated values or multi-string (REG_MULTI_SZ).
func loadStringArrayFromRegistry(key registry.Key, valueName string, target *[]string) {
	// Try multi-string value first (REG_MULTI_SZ)
	if vals, _, err := key.GetStringsValue(valueName); err == nil && len(vals) > 0 {
		filtered := make([]string, 0, len(vals))
		for _, val := range vals {
			if strings.TrimSpace(val) != "" {
				filtered = append(filtered, strings.TrimSpace(val))
			}
		}
		if len(filtered) > 0 {
			*target = filtered
			log.Printf("CSP: Loaded %s = %v", valueName, filtered)
			return
		}
	}

	// Try single string value with comma separation
	if val, _, err := key.GetStringValue(valueName); err == nil && val != "" {
		parts := strings.Split(val, ",")
		filtered := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				filtered = append(filtered, trimmed)
			}
		}
		if len(filtered) > 0 {
			*target = filtered
			log.Printf("CSP: Loaded %s = %v", valueName, filtered)
		}
	}
}
