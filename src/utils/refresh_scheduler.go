package utils

import (
	"context"
	"time"

	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"
)

// RefreshScheduler reloads the portfolio on a fixed interval.
type RefreshScheduler struct {
	Portfolio       interfaces.IPortfolioView
	Interval        time.Duration
	MarketHoursOnly bool
	Logger          *logger.Logger

	anyOpen func(tickers []string, t time.Time) bool
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewRefreshScheduler(cfg *models.MConfig, portfolio interfaces.IPortfolioView, log *logger.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		Portfolio:       portfolio,
		Interval:        time.Duration(cfg.Refresh.IntervalSeconds) * time.Second,
		MarketHoursOnly: cfg.Refresh.MarketHoursOnly,
		Logger:          log,
		anyOpen:         NewMarketHours(log).AnyOpen,
		now:             time.Now,
	}
}

// -----------------------------------------------------------------------------

// Run blocks until ctx is cancelled. A tick is skipped while the previous
// scheduled load is still in flight.
func (r *RefreshScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.Logger.Info("Refreshing every %s (market hours only: %t)", r.Interval, r.MarketHoursOnly)

	var inFlight <-chan struct{}
	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("Refresh scheduler stopped")
			return
		case <-ticker.C:
			if inFlight != nil {
				select {
				case <-inFlight:
				default:
					r.Logger.Debug("Previous refresh still running, skipping tick")
					continue
				}
			}
			if !r.shouldRefresh() {
				continue
			}
			inFlight = r.Portfolio.Load(ctx)
		}
	}
}

// -----------------------------------------------------------------------------

// shouldRefresh without holdings always reloads, so a failed or empty
// portfolio can recover outside market hours.
func (r *RefreshScheduler) shouldRefresh() bool {
	if !r.MarketHoursOnly {
		return true
	}

	content, ok := r.Portfolio.State().(models.ContentView)
	if !ok || len(content.Full) == 0 {
		return true
	}

	tickers := make([]string, 0, len(content.Full))
	for _, s := range content.Full {
		tickers = append(tickers, s.Ticker)
	}

	if r.anyOpen(tickers, r.now()) {
		return true
	}
	r.Logger.Debug("All markets closed for %d holdings, skipping refresh", len(tickers))
	return false
}
