package stocks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"
	"portfolio-viewer/src/network"
)

const portfolioJSON = `{
  "stocks": [
    {
      "ticker": "^GSPC",
      "name": "S&P 500",
      "currency": "USD",
      "current_price_cents": 318157,
      "quantity": 5,
      "current_price_timestamp": 1681845832
    },
    {
      "ticker": "RUNINC",
      "name": "Runners Inc.",
      "currency": "USD",
      "current_price_cents": 3614,
      "quantity": null,
      "current_price_timestamp": 1681845832,
      "exchange": "NASDAQ"
    },
    {
      "ticker": "BAC",
      "name": "Bank of America Corporation",
      "currency": "USD",
      "current_price_cents": 2393
    }
  ]
}`

func newSource(t *testing.T, handler http.HandlerFunc) (*StocksSource, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	cfg := &models.MConfig{Network: models.MNetworkConfig{RequestTimeout: 5, RetryBaseMs: 1}}
	nm := network.NewAsyncNetworkManager(cfg, logger.NewNop("NetworkManager"))
	return NewStocksSource(srv.URL+"/portfolio.json", "token", nm, logger.NewNop("StocksSource")), srv.Close
}

func TestFetchStocksDecodesWireFormat(t *testing.T) {
	src, done := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/portfolio.json" {
			t.Errorf("path = %s, want /portfolio.json", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token" {
			t.Errorf("Authorization = %q, want token", got)
		}
		w.Write([]byte(portfolioJSON))
	})
	defer done()

	records, err := src.FetchStocks(context.Background())
	if err != nil {
		t.Fatalf("FetchStocks failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.Ticker != "^GSPC" || first.CurrentPriceCents != 318157 {
		t.Errorf("first record = %+v", first)
	}
	if first.Quantity == nil || *first.Quantity != 5 {
		t.Errorf("first quantity = %v, want 5", first.Quantity)
	}
	if records[1].Quantity != nil {
		t.Errorf("null quantity decoded as %v", *records[1].Quantity)
	}
	if records[2].Quantity != nil || records[2].CurrentPriceTimestamp != nil {
		t.Errorf("missing optional fields should stay nil: %+v", records[2])
	}
}

func TestFetchStocksEmptyList(t *testing.T) {
	src, done := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stocks": []}`))
	})
	defer done()

	records, err := src.FetchStocks(context.Background())
	if err != nil {
		t.Fatalf("FetchStocks failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %v, want empty non-nil slice", records)
	}
}

func TestFetchStocksFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, "Error", http.StatusInternalServerError},
		{"forbidden", http.StatusForbidden, "", http.StatusForbidden},
		{"malformed body", http.StatusOK, `{"stocks": [`, http.StatusOK},
		{"fractional cents", http.StatusOK, `{"stocks":[{"ticker":"A","name":"A","currency":"USD","current_price_cents":1.5}]}`, http.StatusOK},
		{"empty ticker", http.StatusOK, `{"stocks":[{"ticker":"","name":"A","currency":"USD","current_price_cents":1}]}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, done := newSource(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			defer done()

			_, err := src.FetchStocks(context.Background())
			var fe *helpers.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *helpers.FetchError", err)
			}
			if fe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestDecodeAcceptsRecordsWithOnlyATicker(t *testing.T) {
	src := NewStocksSource("", "", nil, logger.NewNop("StocksSource"))

	body := `{"stocks":[
		{"ticker":"AAPL","name":"Apple","currency":"USD","current_price_cents":31813,"quantity":1},
		{"ticker":"ZZZ","name":"","quantity":null},
		{"ticker":"NOCCY","name":"No Currency","currency":"","current_price_cents":100,"quantity":-2}
	]}`

	records, err := src.Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[1].Name != "" || records[1].Quantity != nil {
		t.Errorf("records[1] = %+v, want empty name and nil quantity", records[1])
	}
	if records[2].Currency != "" || *records[2].Quantity != -2 {
		t.Errorf("records[2] = %+v, want empty currency and quantity -2", records[2])
	}
}
