package portfolio

import "portfolio-viewer/src/models"

// Holdings keeps the records that are actually owned (non-nil quantity),
// preserving order. The result is a new slice.
func Holdings(records []models.MStockRecord) []models.MStockRecord {
	holdings := make([]models.MStockRecord, 0, len(records))
	for _, r := range records {
		if r.IsHolding() {
			holdings = append(holdings, r)
		}
	}
	return holdings
}

// -----------------------------------------------------------------------------

// Filter returns the records whose name or ticker equals query exactly.
// Matching is case-sensitive and never partial. An empty query returns full.
func Filter(full []models.MStockRecord, query string) []models.MStockRecord {
	if query == "" {
		return full
	}
	matches := make([]models.MStockRecord, 0)
	for _, r := range full {
		if r.Name == query || r.Ticker == query {
			matches = append(matches, r)
		}
	}
	return matches
}
