package interfaces

import "portfolio-viewer/src/models"

// -----------------------------------------------------------------------------
// ILoadJournal defines the contract for recording fetch outcomes.
// -----------------------------------------------------------------------------

type ILoadJournal interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// RecordLoad appends one fetch outcome.
	RecordLoad(event models.MLoadEvent) error

	// -----------------------------------------------------------------------------

	// RecentLoads returns up to limit events, newest first.
	RecentLoads(limit int) ([]models.MLoadEvent, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
