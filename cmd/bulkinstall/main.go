// cmd/bulkinstall/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/windowsadmins/patchkit/pkg/chocolatey"
	"github.com/windowsadmins/patchkit/pkg/config"
	"github.com/windowsadmins/patchkit/pkg/defender"
	"github.com/windowsadmins/patchkit/pkg/logging"
	"github.com/windowsadmins/patchkit/pkg/orchestrator"
	"github.com/windowsadmins/patchkit/pkg/process"
	"github.com/windowsadmins/patchkit/pkg/scripts"
	"github.com/windowsadmins/patchkit/pkg/utils"
	"github.com/windowsadmins/patchkit/pkg/version"
)

var logger *logging.Logger

func main() {
	utils.PatchWindowsArgs()

	// Define command-line flags.
	showConfig := pflag.Bool("show-config", false, "Display the current configuration and exit.")
	checkOnly := pflag.Bool("checkonly", false, "List the packages that would be installed, but don't install them.")
	noToggle := pflag.Bool("no-toggle", false, "Leave Controlled Folder Access untouched during the run.")
	versionFlag := pflag.Bool("version", false, "Print the version and exit.")

	// Count the number of -v flags.
	var verbosity int
	pflag.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (e.g. -v, -vv, -vvv)")
	pflag.Parse()

	// Load configuration (only once)
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Dynamically override LogLevel based on the number of -v flags.
	switch verbosity {
	case 0:
		// keep configured level
	case 1:
		cfg.LogLevel = "INFO"
	default:
		cfg.LogLevel = "DEBUG"
	}

	// Initialize logger.
	logger = logging.New(verbosity > 0)
	logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	if err := logging.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		logger.Fatal("Error initializing logger: %v", err)
	}
	defer logging.CloseLogger()

	// Handle --version flag.
	if *versionFlag {
		version.Print()
		os.Exit(0)
	}

	// Show configuration if requested.
	if *showConfig {
		if cfgYaml, err := yaml.Marshal(cfg); err == nil {
			logger.Printf("Current configuration:\n%s", string(cfgYaml))
		}
		os.Exit(0)
	}

	if len(cfg.Packages) == 0 {
		logger.Warning("No packages configured, nothing to do")
		os.Exit(0)
	}

	// In check-only mode, print the plan and exit.
	if *checkOnly || cfg.CheckOnly {
		logger.Printf("Packages that would be installed (in order):")
		for i, pkg := range cfg.Packages {
			logger.Printf("  %d. %s", i+1, pkg)
		}
		os.Exit(0)
	}

	// Check administrative privileges.
	admin, adminErr := utils.AdminCheck()
	if adminErr != nil || !admin {
		logger.Fatal("Administrative access required. Error: %v, Admin: %v", adminErr, admin)
	}

	// Handle system signals for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		logger.Warning("Signal received, canceling run and restoring folder protection: %s", sig.String())
		cancel()
	}()

	// Refuse to start while another installer is active.
	if running := process.RunningInstallers(); len(running) > 0 {
		logger.Fatal("Another installer is already running (%s), try again later", strings.Join(running, ", "))
	}

	// Run preflight script.
	if !cfg.NoPreflight {
		runPreflight()
	}

	choco := chocolatey.New(cfg.ChocolateyPath, time.Duration(cfg.InstallerTimeoutMinutes)*time.Minute)
	if !choco.IsAvailable() {
		logger.Fatal("Chocolatey not found at %s", choco.Path())
	}
	if err := choco.CheckMinimumVersion(ctx); err != nil {
		logger.Warning("Chocolatey version check failed: %v", err)
	}

	opts := []orchestrator.Option{
		orchestrator.WithProgress(func(completed, total int) {
			logger.Printf("Completed %d of %d packages (%d%%)", completed, total, completed*100/total)
		}),
	}
	if cfg.ToggleFolderProtection && !*noToggle {
		toggle := defender.NewFolderProtection()
		if state, err := toggle.State(ctx); err == nil {
			logger.Info("Controlled Folder Access is currently %s", state)
		} else {
			logger.Debug("Could not query Controlled Folder Access state: %v", err)
		}
		opts = append(opts, orchestrator.WithProtectionToggle(toggle))
	} else {
		logger.Info("Leaving Controlled Folder Access untouched")
	}

	summary := orchestrator.New(choco, opts...).Run(ctx, cfg.Packages)

	// Run postflight script.
	if !cfg.NoPostflight {
		runPostflight()
	}

	// Report the outcome. Per-package failures were already logged as
	// warnings; the process still exits 0 after attempting every package.
	for _, result := range summary.Results {
		if result.Result == orchestrator.FailedBoth {
			logger.Warning("Package %s could not be installed: %v", result.Name, result.Err)
		}
	}
	if summary.Failed > 0 {
		logger.Warning("Installed %d of %d packages, %d failed", summary.Installed, summary.Attempted, summary.Failed)
	} else {
		logger.Success("Installed %d of %d packages", summary.Installed, summary.Attempted)
	}

	os.Exit(0)
}

// runPreflight runs the preflight script.
func runPreflight() {
	logInfo := func(format string, args ...interface{}) {
		logger.Debug(format, args...)
	}
	logError := func(format string, args ...interface{}) {
		logger.Error(format, args...)
	}

	if err := scripts.RunPreflight(logInfo, logError); err != nil {
		// Preflight script failures should not be fatal.
		logger.Error("Preflight script failed: %v", err)
	}
}

// runPostflight runs the postflight script.
func runPostflight() {
	logInfo := func(format string, args ...interface{}) {
		logger.Debug(format, args...)
	}
	logError := func(format string, args ...interface{}) {
		logger.Error(format, args...)
	}

	if err := scripts.RunPostflight(logInfo, logError); err != nil {
		logger.Error("Postflight script failed: %v", err)
	}
}
