package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"portfolio-viewer/src/config"
	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/portfolio"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)
	defer appLogger.Sync()
	errHandler := helpers.NewErrorHandler(appLogger)

	// 1. Load journal (optional)
	journal, err := setupJournal(conf, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init load journal: %v", err)
	}
	if journal != nil {
		defer journal.Close()
	}

	// 2. Fetch pipeline
	fetcher, err := setupFetcher(conf, journal, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init portfolio source: %v", err)
	}

	// 3. State machine
	machine := portfolio.NewStateMachine(fetcher, logger.NewLogger(conf.MConfig, "Portfolio"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Outer surfaces
	wg := &sync.WaitGroup{}
	stop := startServers(ctx, conf, machine, journal, errHandler, wg)

	// 5. Initial load
	appLogger.Info("Fetching portfolio...")
	machine.Load(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()
	stop()
	wg.Wait()

	if n := errHandler.ErrorCount(); n > 0 {
		appLogger.Warning("Exiting after %d errors", n)
	}
}
