package presenter

import (
	"strings"
	"testing"
	"time"

	"portfolio-viewer/src/models"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{1234234, "USD", "$12,342.34"},
		{5, "USD", "$0.05"},
		{318157, "XYZ", "3181.57 XYZ"},
		{-250, "XYZ", "-2.50 XYZ"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents, tt.currency); got != tt.want {
			t.Errorf("FormatCents(%d, %s) = %q, want %q", tt.cents, tt.currency, got, tt.want)
		}
	}
}

func TestRows(t *testing.T) {
	ten := int64(10)
	view := models.ContentView{
		Visible: []models.MStockRecord{{Ticker: "AAPL", Name: "Apple", Currency: "USD", CurrentPriceCents: 1234234, Quantity: &ten}},
	}
	rows := Rows(view)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := Row{Ticker: "AAPL", Name: "Apple", Shares: "10 shares", Price: "$12,342.34"}
	if rows[0] != want {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}

	if got := Rows(models.LoadingView{}); len(got) != 0 {
		t.Errorf("loading view rows = %v, want none", got)
	}
}

func TestMarkdownStates(t *testing.T) {
	one := int64(1)
	apple := models.MStockRecord{Ticker: "AAPL", Name: "Apple", Currency: "USD", Quantity: &one}

	tests := []struct {
		name string
		view models.PortfolioView
		want string
	}{
		{"loading", models.LoadingView{}, "Loading"},
		{"error", models.ErrorView{Message: "Could not get stocks"}, "**Error** Could not get stocks"},
		{"empty", models.ContentView{Visible: nil, Full: []models.MStockRecord{apple}}, EmptyMessage},
		{"table", models.ContentView{Visible: []models.MStockRecord{apple}, Full: []models.MStockRecord{apple}}, "| AAPL | Apple | 1 shares |"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Markdown(tt.view); !strings.Contains(got, tt.want) {
				t.Errorf("Markdown() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestRenderProducesText(t *testing.T) {
	out, err := Render(models.ErrorView{Message: "Could not get stocks"}, 60)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "Could not get stocks") {
		t.Errorf("rendered output %q does not contain the message", out)
	}
}

func TestJournalMarkdown(t *testing.T) {
	if md := JournalMarkdown(nil); !strings.Contains(md, "No loads recorded") {
		t.Errorf("empty journal markdown = %q", md)
	}

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	md := JournalMarkdown([]models.MLoadEvent{{
		ID:         "a",
		StartedAt:  start,
		FinishedAt: start.Add(250 * time.Millisecond),
		Outcome:    models.LoadOutcomeFailure,
		StatusCode: 503,
		Error:      "upstream | unavailable",
	}})
	for _, want := range []string{"250ms", "failure", "503", `upstream \| unavailable`} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
