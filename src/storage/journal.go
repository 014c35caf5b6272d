package storage

import (
	"context"
	"time"

	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"

	"github.com/google/uuid"
)

// JournalingFetcher records the outcome of every fetch it forwards.
// Journal errors are logged and never change the fetch result.
type JournalingFetcher struct {
	Next    interfaces.IPortfolioFetcher
	Journal interfaces.ILoadJournal
	Logger  *logger.Logger
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewJournalingFetcher(next interfaces.IPortfolioFetcher, journal interfaces.ILoadJournal, log *logger.Logger) *JournalingFetcher {
	return &JournalingFetcher{Next: next, Journal: journal, Logger: log, now: time.Now}
}

// -----------------------------------------------------------------------------

func (j *JournalingFetcher) FetchStocks(ctx context.Context) ([]models.MStockRecord, error) {
	started := j.now().UTC()
	records, err := j.Next.FetchStocks(ctx)

	event := models.MLoadEvent{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: j.now().UTC(),
	}
	if err != nil {
		event.Outcome = models.LoadOutcomeFailure
		event.StatusCode = helpers.StatusCode(err)
		event.Error = err.Error()
	} else {
		event.Outcome = models.LoadOutcomeSuccess
		event.StatusCode = 200
		event.Records = len(records)
		for _, r := range records {
			if r.IsHolding() {
				event.Holdings++
			}
		}
	}

	if jerr := j.Journal.RecordLoad(event); jerr != nil {
		j.Logger.Error("Failed to journal load %s: %v", event.ID, jerr)
	}

	return records, err
}

// -----------------------------------------------------------------------------

// NewJournal builds the journal selected by storage.db_type, or nil for "none".
func NewJournal(cfg *models.MConfig, log *logger.Logger) (interfaces.ILoadJournal, error) {
	switch cfg.Storage.DBType {
	case "postgres":
		db, err := NewPostgresDB(cfg, log.Named("PostgresDB"))
		if err != nil {
			return nil, err
		}
		return db, nil
	case "sqlite":
		db, err := NewAsyncSQLiteDB(cfg, log.Named("SQLiteDB"))
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, nil
	}
}
