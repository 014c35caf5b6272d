package main

import (
	"context"
	"sync"

	"portfolio-viewer/src/config"
	"portfolio-viewer/src/data_source/stocks"
	"portfolio-viewer/src/events"
	"portfolio-viewer/src/grpc_control"
	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/network"
	"portfolio-viewer/src/server"
	"portfolio-viewer/src/storage"
	"portfolio-viewer/src/utils"
)

// -----------------------------------------------------------------------------

// setupJournal opens the load journal, or returns nil when it is disabled.
func setupJournal(conf *config.Config, appLogger *logger.Logger) (interfaces.ILoadJournal, error) {
	journal, err := storage.NewJournal(conf.MConfig, logger.NewLogger(conf.MConfig, "Journal"))
	if err != nil {
		return nil, err
	}
	if journal == nil {
		appLogger.Info("Load journal disabled")
		return nil, nil
	}
	if err := journal.Initialize(); err != nil {
		journal.Close()
		return nil, err
	}
	appLogger.Info("Load journal ready (%s)", conf.Storage.DBType)
	return journal, nil
}

// -----------------------------------------------------------------------------

// setupFetcher builds network -> stocks source -> journal decorator.
func setupFetcher(conf *config.Config, journal interfaces.ILoadJournal, appLogger *logger.Logger) (interfaces.IPortfolioFetcher, error) {
	url, err := conf.PortfolioURL()
	if err != nil {
		return nil, err
	}

	netMgr := network.NewAsyncNetworkManager(conf.MConfig, logger.NewLogger(conf.MConfig, "NetworkManager"))
	source := stocks.NewStocksSource(url, conf.Portfolio.AuthToken, netMgr, logger.NewLogger(conf.MConfig, "StocksSource"))
	appLogger.Info("Portfolio source: %s (token: %q)", url, conf.MaskedToken())

	if journal == nil {
		return source, nil
	}
	return storage.NewJournalingFetcher(source, journal, logger.NewLogger(conf.MConfig, "Journal")), nil
}

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of all outer surfaces. Everything
// started here stops when ctx is cancelled or stop is called.
func startServers(
	ctx context.Context,
	conf *config.Config,
	portfolio interfaces.IPortfolioView,
	journal interfaces.ILoadJournal,
	errHandler *helpers.ErrorHandler,
	wg *sync.WaitGroup,
) (stop func()) {
	var exchangers []interfaces.IDataExchanger

	// 1. HTTP + websocket server
	srv := server.NewPortfolioServer(conf.MConfig, logger.NewLogger(conf.MConfig, "PortfolioServer"), portfolio, journal)
	exchangers = append(exchangers, srv)

	// 2. gRPC Control Server
	if conf.GrpcPort != 0 {
		exchangers = append(exchangers, grpc_control.NewControlServer(conf.MConfig, portfolio, logger.NewLogger(conf.MConfig, "ControlService")))
	}

	for _, ex := range exchangers {
		wg.Add(1)
		go func(ex interfaces.IDataExchanger) {
			defer wg.Done()
			errHandler.Handle(ex.Start(), "server")
		}(ex)
	}

	// 3. Periodic refresh
	if conf.Refresh.Enabled {
		scheduler := utils.NewRefreshScheduler(conf.MConfig, portfolio, logger.NewLogger(conf.MConfig, "RefreshScheduler"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			scheduler.Run(ctx)
		}()
	}

	// 4. Kafka view events
	if publisher := events.NewViewPublisher(conf.MConfig, portfolio, logger.NewLogger(conf.MConfig, "ViewPublisher")); publisher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			publisher.Run(ctx)
		}()
	}

	return func() {
		for _, ex := range exchangers {
			errHandler.Handle(ex.Stop(), "shutdown")
		}
	}
}
