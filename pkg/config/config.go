// pkg/config/config.go - configuration settings for PatchKit.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const ConfigPath = `C:\ProgramData\PatchKit\Config.yaml`

// CSP OMA-URI registry path for enterprise policy configuration
const CSPRegistryPath = `SOFTWARE\PatchKit\Config`

// Configuration holds the configurable options for PatchKit in YAML format.
type Configuration struct {
	// Bulk install settings
	Packages                []string `yaml:"Packages"`                // ordered install list
	ChocolateyPath          string   `yaml:"ChocolateyPath"`          // path to choco.exe
	InstallerTimeoutMinutes int      `yaml:"InstallerTimeoutMinutes"` // per-package timeout
	ToggleFolderProtection  bool     `yaml:"ToggleFolderProtection"`  // disable CFA around the run
	NoPreflight             bool     `yaml:"NoPreflight"`             // skip preflight script
	NoPostflight            bool     `yaml:"NoPostflight"`            // skip postflight script

	// Definition-update approval settings
	WsusServer   string   `yaml:"WsusServer"`
	WsusPort     int      `yaml:"WsusPort"`
	WsusUseSSL   bool     `yaml:"WsusUseSSL"`
	TargetGroups []string `yaml:"TargetGroups"`

	// Shared settings
	LogPath   string `yaml:"LogPath"`
	LogLevel  string `yaml:"LogLevel"`
	Debug     bool   `yaml:"Debug"`
	Verbose   bool   `yaml:"Verbose"`
	CheckOnly bool   `yaml:"CheckOnly"`
}

// LoadConfig loads the configuration from a YAML file.
// If the YAML file doesn't exist, it falls back to CSP OMA-URI registry settings.
func LoadConfig() (*Configuration, error) {
	if _, err := os.Stat(ConfigPath); os.IsNotExist(err) {
		log.Printf("Configuration file does not exist: %s", ConfigPath)

		// Try CSP fallback
		config, cspErr := LoadConfigFromCSP()
		if cspErr == nil {
			log.Printf("Loaded configuration from CSP OMA-URI registry settings")
			return config, nil
		}

		log.Printf("Failed to load from CSP registry: %v", cspErr)
		log.Printf("No configuration file or CSP registry settings found, using defaults")
		config = GetDefaultConfig()
		if err := ensureDirectories(config); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(ConfigPath)
	if err != nil {
		log.Printf("Failed to read configuration file: %v", err)
		return nil, err
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse configuration file: %v", err)
		return nil, err
	}

	applyDefaults(config)
	if err := ensureDirectories(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the current configuration to a YAML file.
func SaveConfig(config *Configuration) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		log.Printf("Failed to serialize configuration: %v", err)
		return err
	}

	err = os.MkdirAll(filepath.Dir(ConfigPath), 0755)
	if err != nil {
		log.Printf("Failed to create configuration directory: %v", err)
		return err
	}

	err = os.WriteFile(ConfigPath, data, 0644)
	if err != nil {
		log.Printf("Failed to write configuration file: %v", err)
		return err
	}

	return nil
}

// GetDefaultConfig provides default configuration values in YAML format.
func GetDefaultConfig() *Configuration {
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return &Configuration{
		Packages: []string{
			"googlechrome",
			"firefox",
			"7zip",
			"notepadplusplus",
			"vlc",
			"adobereader",
			"git",
			"vscode",
		},
		ChocolateyPath:          filepath.Join(programData, "chocolatey", "bin", "choco.exe"),
		InstallerTimeoutMinutes: 15,
		ToggleFolderProtection:  true,
		WsusPort:                8530,
		WsusUseSSL:              false,
		TargetGroups:            []string{"All Computers"},
		LogPath:                 filepath.Join(programData, "PatchKit", "logs"),
		LogLevel:                "INFO",
		Debug:                   false,
		Verbose:                 false,
		CheckOnly:               false,
	}
}

// applyDefaults fills in empty fields after a YAML load so a partial
// configuration file still yields a usable Configuration.
func applyDefaults(config *Configuration) {
	defaults := GetDefaultConfig()
	if config.ChocolateyPath == "" {
		config.ChocolateyPath = defaults.ChocolateyPath
	}
	if config.LogPath == "" {
		config.LogPath = defaults.LogPath
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.InstallerTimeoutMinutes == 0 {
		config.InstallerTimeoutMinutes = defaults.InstallerTimeoutMinutes
	}
	if config.WsusPort == 0 {
		config.WsusPort = defaults.WsusPort
	}
	if len(config.TargetGroups) == 0 {
		config.TargetGroups = defaults.TargetGroups
	}
}

func ensureDirectories(config *Configuration) error {
	if err := os.MkdirAll(config.LogPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %v", config.LogPath, err)
	}
	return nil
}
