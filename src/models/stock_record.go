package models

// MStockRecord is one entry of the portfolio document.
// Quantity is nil for instruments that are tracked but not held.
// Only Ticker is required; the other strings are taken as received.
type MStockRecord struct {
	Ticker                string `json:"ticker" validate:"required"`
	Name                  string `json:"name"`
	Currency              string `json:"currency"`
	CurrentPriceCents     int64  `json:"current_price_cents"`
	Quantity              *int64 `json:"quantity"`
	CurrentPriceTimestamp *int64 `json:"current_price_timestamp"`
}

// -----------------------------------------------------------------------------

// IsHolding reports whether the record is actually owned.
func (r MStockRecord) IsHolding() bool {
	return r.Quantity != nil
}

// -----------------------------------------------------------------------------

// MStocksResponse is the document served by the portfolio endpoint.
type MStocksResponse struct {
	Stocks []MStockRecord `json:"stocks"`
}
