package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/syntrixbase/crm/internal/config"
	"github.com/syntrixbase/crm/internal/logging"
	"github.com/syntrixbase/crm/internal/services"
	svcconfig "github.com/syntrixbase/crm/internal/services/config"
)

func main() {
	// 0. Parse Command Line Flags
	runCRM := flag.Bool("crm", false, "Run the campaign orchestrator")
	runUserState := flag.Bool("user-state", false, "Run the user state service")
	runMetadata := flag.Bool("metadata", false, "Run the content metadata service")
	runNotification := flag.Bool("notification", false, "Run the notification service")
	runAll := flag.Bool("all", false, "Run all services")
	flag.Parse()

	// 1. Load Configuration
	cfg := config.LoadConfig()

	// Flags replace the configured selection when any is given.
	flags := map[svcconfig.Service]bool{
		svcconfig.ServiceCRM:          *runCRM,
		svcconfig.ServiceUserState:    *runUserState,
		svcconfig.ServiceMetadata:     *runMetadata,
		svcconfig.ServiceNotification: *runNotification,
	}
	if *runAll {
		cfg.Services = svcconfig.DefaultConfig()
	} else if *runCRM || *runUserState || *runMetadata || *runNotification {
		cfg.Services = svcconfig.Config{}
		for s, on := range flags {
			_ = cfg.Services.Set(s, on)
		}
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Shutdown()

	slog.Info("Starting CRM services", "services", cfg.Services.Selected())

	// 2. Initialize Service Manager
	mgr := services.NewManager(cfg, services.Options{Logger: slog.Default()})

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mgr.Init(initCtx); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		mgr.Shutdown(context.Background())
		os.Exit(1)
	}

	// 3. Start Services
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	if err := mgr.Start(bgCtx); err != nil {
		slog.Error("Failed to start services", "error", err)
		os.Exit(1)
	}

	// 4. Wait for Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case sig := <-quit:
		slog.Info("Shutting down services...", "signal", sig.String())
	case err := <-mgr.Err():
		slog.Error("Server failed, shutting down", "error", err)
		exitCode = 1
	}

	// The drain timeout bounds campaign dispatch; the server gets its own budget on top.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.CRM.DrainTimeout+cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	mgr.Shutdown(shutdownCtx)
	bgCancel()

	slog.Info("All services stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
