package stocks

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"

	"github.com/go-playground/validator/v10"
)

// StocksSource fetches the portfolio document and decodes it.
type StocksSource struct {
	URL       string
	AuthToken string
	Network   interfaces.INetworkManager
	Logger    *logger.Logger
	validate  *validator.Validate
}

// -----------------------------------------------------------------------------

func NewStocksSource(url, authToken string, netMgr interfaces.INetworkManager, log *logger.Logger) *StocksSource {
	return &StocksSource{
		URL:       url,
		AuthToken: authToken,
		Network:   netMgr,
		Logger:    log,
		validate:  validator.New(),
	}
}

// -----------------------------------------------------------------------------

// FetchStocks downloads and decodes the document. Records keep server order.
func (s *StocksSource) FetchStocks(ctx context.Context) ([]models.MStockRecord, error) {
	headers := map[string]string{}
	if s.AuthToken != "" {
		headers["Authorization"] = s.AuthToken
	}

	body, err := s.Network.Get(ctx, s.URL, headers)
	if err != nil {
		return nil, err
	}

	records, err := s.Decode(body)
	if err != nil {
		// The body came from a 2xx response
		return nil, helpers.NewFetchError(200, "malformed portfolio document", err)
	}

	s.Logger.Debug("Fetched %d records from %s", len(records), s.URL)
	return records, nil
}

// -----------------------------------------------------------------------------

// Decode parses the wire format. Unknown fields are ignored, missing optional
// fields stay nil, and every record needs a non-empty ticker.
func (s *StocksSource) Decode(body []byte) ([]models.MStockRecord, error) {
	var resp models.MStocksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio JSON: %w", err)
	}

	for i := range resp.Stocks {
		if err := s.validate.Struct(resp.Stocks[i]); err != nil {
			return nil, helpers.NewValidationError(fmt.Sprintf("invalid stock record %d", i), err)
		}
	}

	if resp.Stocks == nil {
		resp.Stocks = []models.MStockRecord{}
	}
	return resp.Stocks, nil
}
