package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"
	"portfolio-viewer/src/portfolio"

	"github.com/gorilla/websocket"
)

type stubFetcher struct {
	records []models.MStockRecord
	err     error
}

func (f stubFetcher) FetchStocks(ctx context.Context) ([]models.MStockRecord, error) {
	return f.records, f.err
}

type memoryJournal struct {
	events []models.MLoadEvent
}

func (j *memoryJournal) Initialize() error { return nil }
func (j *memoryJournal) Close() error      { return nil }
func (j *memoryJournal) RecordLoad(e models.MLoadEvent) error {
	j.events = append(j.events, e)
	return nil
}
func (j *memoryJournal) RecentLoads(limit int) ([]models.MLoadEvent, error) {
	if limit > len(j.events) {
		limit = len(j.events)
	}
	return j.events[:limit], nil
}

func qty(n int64) *int64 { return &n }

func samplePortfolio() []models.MStockRecord {
	return []models.MStockRecord{
		{Ticker: "AAPL", Name: "Apple", Currency: "USD", CurrentPriceCents: 31813, Quantity: qty(5)},
		{Ticker: "TWTR", Name: "Twitter, Inc.", Currency: "USD", CurrentPriceCents: 3833},
		{Ticker: "GOOG", Name: "Google", Currency: "USD", CurrentPriceCents: 123456, Quantity: qty(1)},
	}
}

type viewBody struct {
	State   string                `json:"state"`
	Visible []models.MStockRecord `json:"visible"`
	Full    []models.MStockRecord `json:"full"`
	Message string                `json:"message"`
}

func newTestServer(t *testing.T, fetcher stubFetcher, journal *memoryJournal) (*PortfolioServer, *portfolio.StateMachine) {
	t.Helper()
	cfg := &models.MConfig{Name: "test", Host: "127.0.0.1", Port: 8080, LogLevel: "INFO"}
	machine := portfolio.NewStateMachine(fetcher, logger.NewNop("portfolio"))
	var s *PortfolioServer
	if journal != nil {
		s = NewPortfolioServer(cfg, logger.NewNop("server"), machine, journal)
	} else {
		s = NewPortfolioServer(cfg, logger.NewNop("server"), machine, nil)
	}
	t.Cleanup(func() { s.Stop() })
	return s, machine
}

func do(t *testing.T, s *PortfolioServer, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) viewBody {
	t.Helper()
	var v viewBody
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return v
}

func TestGetPortfolioStartsLoading(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{}, nil)

	w := do(t, s, http.MethodGet, "/api/portfolio", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decodeView(t, w).State; got != models.ViewKindLoading {
		t.Errorf("state = %q, want loading", got)
	}
}

func TestLoadWaitReturnsHoldings(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{records: samplePortfolio()}, nil)

	w := do(t, s, http.MethodPost, "/api/portfolio/load?wait=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	v := decodeView(t, w)
	if v.State != models.ViewKindContent {
		t.Fatalf("state = %q, want content", v.State)
	}
	if len(v.Visible) != 2 || len(v.Full) != 2 {
		t.Errorf("got %d visible / %d full, want 2 / 2", len(v.Visible), len(v.Full))
	}
}

func TestLoadWithoutWaitIsAccepted(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{records: samplePortfolio()}, nil)

	w := do(t, s, http.MethodPost, "/api/portfolio/load", "")
	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", w.Code)
	}
}

func TestLoadFailureReportsConstantMessage(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{err: errors.New("boom")}, nil)

	v := decodeView(t, do(t, s, http.MethodPost, "/api/portfolio/load?wait=1", ""))
	if v.State != models.ViewKindError || v.Message != portfolio.FetchFailedMessage {
		t.Errorf("got %+v, want error view with %q", v, portfolio.FetchFailedMessage)
	}
}

func TestSearchEndpoints(t *testing.T) {
	s, machine := newTestServer(t, stubFetcher{records: samplePortfolio()}, nil)
	<-machine.Load(context.Background())

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   []string
	}{
		{"post ticker", http.MethodPost, "/api/portfolio/search", `{"query":"GOOG"}`, []string{"GOOG"}},
		{"get name", http.MethodGet, "/api/portfolio/search?q=Apple", "", []string{"AAPL"}},
		{"case sensitive", http.MethodGet, "/api/portfolio/search?q=apple", "", nil},
		{"empty restores", http.MethodPost, "/api/portfolio/search", `{"query":""}`, []string{"AAPL", "GOOG"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.target, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			v := decodeView(t, w)
			if len(v.Visible) != len(tt.want) {
				t.Fatalf("got %d visible, want %d", len(v.Visible), len(tt.want))
			}
			for i, r := range v.Visible {
				if r.Ticker != tt.want[i] {
					t.Errorf("visible[%d] = %s, want %s", i, r.Ticker, tt.want[i])
				}
			}
			if len(v.Full) != 2 {
				t.Errorf("full has %d records, want 2", len(v.Full))
			}
		})
	}
}

func TestSearchOutsideContentConflicts(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{}, nil)

	w := do(t, s, http.MethodGet, "/api/portfolio/search?q=AAPL", "")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestSearchRejectsBadBody(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{}, nil)

	w := do(t, s, http.MethodPost, "/api/portfolio/search", `{"query":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHoldingsRows(t *testing.T) {
	s, machine := newTestServer(t, stubFetcher{records: samplePortfolio()}, nil)
	<-machine.Load(context.Background())
	machine.Search("nothing")

	var resp struct {
		State   string `json:"state"`
		Rows    []any  `json:"rows"`
		Message string `json:"message"`
	}
	w := do(t, s, http.MethodGet, "/api/holdings", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.State != models.ViewKindContent || len(resp.Rows) != 0 {
		t.Errorf("got state %q with %d rows, want content with 0", resp.State, len(resp.Rows))
	}
	if resp.Message != "No stocks found" {
		t.Errorf("message = %q, want %q", resp.Message, "No stocks found")
	}
}

func TestJournalEndpoint(t *testing.T) {
	journal := &memoryJournal{events: []models.MLoadEvent{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	s, _ := newTestServer(t, stubFetcher{}, journal)

	var resp struct {
		Events []models.MLoadEvent `json:"events"`
	}
	w := do(t, s, http.MethodGet, "/api/journal?limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Events) != 2 {
		t.Errorf("got %d events, want 2", len(resp.Events))
	}

	if w := do(t, s, http.MethodGet, "/api/journal?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
}

func TestJournalDisabled(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{}, nil)

	if w := do(t, s, http.MethodGet, "/api/journal", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{}, nil)

	var resp map[string]any
	w := do(t, s, http.MethodGet, "/api/health", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "ok" || resp["state"] != models.ViewKindLoading {
		t.Errorf("got %v", resp)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/portfolio", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
}

// -----------------------------------------------------------------------------

type wsMessage struct {
	Type  string   `json:"type"`
	View  viewBody `json:"view"`
	Error string   `json:"error"`
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(wsMessage) bool) wsMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestWebSocketStreamsViews(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{records: samplePortfolio()}, nil)
	s.Run()

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	initial := readUntil(t, conn, func(wsMessage) bool { return true })
	if initial.Type != models.MessageInitial || initial.View.State != models.ViewKindLoading {
		t.Fatalf("first message = %+v, want INITIAL loading", initial)
	}

	// Search before content is rejected to this client only
	if err := conn.WriteJSON(models.MClientCommand{Command: "search", Query: "AAPL"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	rejected := readUntil(t, conn, func(m wsMessage) bool { return m.Type == models.MessageError })
	if rejected.Error == "" {
		t.Errorf("rejection carries no error text")
	}

	if err := conn.WriteJSON(models.MClientCommand{Command: "load"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	loaded := readUntil(t, conn, func(m wsMessage) bool { return m.View.State == models.ViewKindContent })
	if len(loaded.View.Visible) != 2 {
		t.Fatalf("got %d visible, want 2", len(loaded.View.Visible))
	}

	if err := conn.WriteJSON(models.MClientCommand{Command: "search", Query: "Google"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	searched := readUntil(t, conn, func(m wsMessage) bool {
		return m.View.State == models.ViewKindContent && len(m.View.Visible) == 1
	})
	if searched.View.Visible[0].Ticker != "GOOG" || len(searched.View.Full) != 2 {
		t.Errorf("got %+v, want GOOG visible out of 2", searched.View)
	}
}

func TestWebSocketMalformedCommandDisconnects(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{}, nil)
	s.Run()

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == models.MessageInitial })

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"command":`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
				t.Fatal("connection still open after malformed command")
			}
			break
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		s.stateMutex.RLock()
		n := s.connections
		s.stateMutex.RUnlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("connections = %d, want 0 after disconnect", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
