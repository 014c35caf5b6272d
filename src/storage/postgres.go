package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	// Use the executable name as schema so several tools can share one database
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresDB{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return helpers.NewDatabaseError("failed to open postgres", err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabaseError("failed to ping postgres", err)
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to create schema %s", d.Schema), err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			outcome TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			records INTEGER NOT NULL,
			holdings INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);
	`, d.table())
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("failed to create load_events", err)
	}

	d.Logger.Info("PostgresDB: journal ready in schema %s", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) table() string {
	return fmt.Sprintf(`"%s".load_events`, d.Schema)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) RecordLoad(e models.MLoadEvent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, started_at, finished_at, outcome, status_code, records, holdings, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, d.table())
	if _, err := d.DB.Exec(query, e.ID, e.StartedAt, e.FinishedAt, e.Outcome, e.StatusCode, e.Records, e.Holdings, e.Error); err != nil {
		return helpers.NewDatabaseError("failed to insert load event", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) RecentLoads(limit int) ([]models.MLoadEvent, error) {
	query := fmt.Sprintf(`
		SELECT id, started_at, finished_at, outcome, status_code, records, holdings, error
		FROM %s
		ORDER BY started_at DESC, finished_at DESC
		LIMIT $1
	`, d.table())
	rows, err := d.DB.Query(query, limit)
	if err != nil {
		return nil, helpers.NewDatabaseError("failed to query load events", err)
	}
	defer rows.Close()

	events := make([]models.MLoadEvent, 0, limit)
	for rows.Next() {
		var e models.MLoadEvent
		if err := rows.Scan(&e.ID, &e.StartedAt, &e.FinishedAt, &e.Outcome, &e.StatusCode, &e.Records, &e.Holdings, &e.Error); err != nil {
			return nil, helpers.NewDatabaseError("failed to scan load event", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
