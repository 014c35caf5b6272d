package storage

import (
	"database/sql"
	"fmt"
	"time"

	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewDatabaseError("failed to open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabaseError("failed to ping sqlite", err)
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) createTables() error {
	// Timestamps are unix milliseconds
	query := `
		CREATE TABLE IF NOT EXISTS load_events (
			id TEXT PRIMARY KEY,
			started_at INTEGER,
			finished_at INTEGER,
			outcome TEXT,
			status_code INTEGER,
			records INTEGER,
			holdings INTEGER,
			error TEXT
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("failed to create load_events", err)
	}

	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_load_events_started ON load_events (started_at)`); err != nil {
		return helpers.NewDatabaseError("failed to create load_events index", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) RecordLoad(e models.MLoadEvent) error {
	_, err := d.DB.Exec(`
		INSERT INTO load_events (id, started_at, finished_at, outcome, status_code, records, holdings, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.StartedAt.UnixMilli(), e.FinishedAt.UnixMilli(), e.Outcome, e.StatusCode, e.Records, e.Holdings, e.Error)
	if err != nil {
		return helpers.NewDatabaseError("failed to insert load event", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) RecentLoads(limit int) ([]models.MLoadEvent, error) {
	rows, err := d.DB.Query(`
		SELECT id, started_at, finished_at, outcome, status_code, records, holdings, error
		FROM load_events
		ORDER BY started_at DESC, finished_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to query load events", err)
	}
	defer rows.Close()

	events := make([]models.MLoadEvent, 0, limit)
	for rows.Next() {
		var e models.MLoadEvent
		var started, finished int64
		if err := rows.Scan(&e.ID, &started, &finished, &e.Outcome, &e.StatusCode, &e.Records, &e.Holdings, &e.Error); err != nil {
			return nil, helpers.NewDatabaseError("failed to scan load event", err)
		}
		e.StartedAt = time.UnixMilli(started).UTC()
		e.FinishedAt = time.UnixMilli(finished).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load events iteration: %w", err)
	}
	return events, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
