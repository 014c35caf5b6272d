package interfaces

import (
	"context"

	"portfolio-viewer/src/models"
)

// -----------------------------------------------------------------------------
// IPortfolioFetcher retrieves the list of stock records from the remote document.
// -----------------------------------------------------------------------------

type IPortfolioFetcher interface {

	// -----------------------------------------------------------------------------

	// FetchStocks performs one fetch. Records are returned in server order.
	// Failures are reported as *helpers.FetchError.
	FetchStocks(ctx context.Context) ([]models.MStockRecord, error)
}
