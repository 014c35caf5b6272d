package interfaces

import (
	"context"

	"portfolio-viewer/src/models"
)

// -----------------------------------------------------------------------------
// IPortfolioView is what the outer surfaces (server, gRPC, scheduler, events)
// need from the portfolio state machine.
// -----------------------------------------------------------------------------

type IPortfolioView interface {
	// State returns the current view
	State() models.PortfolioView

	// Load starts a fetch; the channel closes when its final view is published
	Load(ctx context.Context) <-chan struct{}

	// Search filters the visible list; false when not in content
	Search(query string) bool

	// Subscribe streams views until cancel is called
	Subscribe() (<-chan models.PortfolioView, func())
}
