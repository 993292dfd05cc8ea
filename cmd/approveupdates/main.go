// cmd/approveupdates/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/windowsadmins/patchkit/pkg/config"
	"github.com/windowsadmins/patchkit/pkg/logging"
	"github.com/windowsadmins/patchkit/pkg/utils"
	"github.com/windowsadmins/patchkit/pkg/version"
	"github.com/windowsadmins/patchkit/pkg/wsus"
)

var logger *logging.Logger

func main() {
	utils.PatchWindowsArgs()

	// Define command-line flags.
	showConfig := pflag.Bool("show-config", false, "Display the current configuration and exit.")
	checkOnly := pflag.Bool("checkonly", false, "List pending definition updates, but don't approve them.")
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

	if cfg.WsusServer == "" {
		logger.Fatal("WsusServer must be configured in %s", config.ConfigPath)
	}
	if len(cfg.TargetGroups) == 0 {
		logger.Fatal("At least one target group must be configured")
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
		logger.Warning("Signal received, exiting gracefully: %s", sig.String())
		cancel()
	}()

	server := wsus.NewServer(cfg.WsusServer, cfg.WsusPort, cfg.WsusUseSSL)
	logger.Info("Connecting to WSUS server %s:%d (SSL: %t)", cfg.WsusServer, cfg.WsusPort, cfg.WsusUseSSL)

	// In check-only mode, list pending updates and exit.
	if *checkOnly || cfg.CheckOnly {
		updates, err := server.PendingDefinitionUpdates(ctx)
		if err != nil {
			logger.Fatal("Failed to list pending definition updates: %v", err)
		}
		if len(updates) == 0 {
			logger.Printf("No pending definition updates.")
			os.Exit(0)
		}
		logger.Printf("Pending definition updates:")
		for _, update := range updates {
			if len(update.KBArticles) > 0 {
				logger.Printf("  %s (KB%s)", update.Title, strings.Join(update.KBArticles, ", KB"))
			} else {
				logger.Printf("  %s", update.Title)
			}
		}
		os.Exit(0)
	}

	summary, err := server.ApproveDefinitionUpdates(ctx, cfg.TargetGroups)
	if err != nil {
		logger.Fatal("Failed to approve definition updates: %v", err)
	}

	if summary.Failed > 0 {
		logger.Warning("Approved %d of %d update/group pairs, %d failed",
			summary.Approved, summary.Approved+summary.Failed, summary.Failed)
	} else {
		logger.Success("Approved %d definition updates for %d target groups",
			summary.Updates, len(cfg.TargetGroups))
	}

	os.Exit(0)
}
