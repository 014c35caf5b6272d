// Package presenter turns portfolio views into display rows and terminal
// output. It is only used by the outer surfaces (HTTP, CLI).
package presenter

import (
	"fmt"
	"strings"
	"time"

	"portfolio-viewer/src/models"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
)

// EmptyMessage is shown when a content view has nothing visible.
const EmptyMessage = "No stocks found"

// Row is one list item.
type Row struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Shares string `json:"shares"`
	Price  string `json:"price"`
}

// -----------------------------------------------------------------------------

// FormatCents renders an amount in minor units, e.g. 123423 USD -> "$1,234.23".
// Unknown currency codes fall back to "<units>.<cents> <code>".
func FormatCents(cents int64, currency string) string {
	if money.GetCurrency(currency) == nil {
		sign := ""
		if cents < 0 {
			sign = "-"
			cents = -cents
		}
		return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
	}
	return money.New(cents, currency).Display()
}

// -----------------------------------------------------------------------------

// NewRow formats one record.
func NewRow(r models.MStockRecord) Row {
	shares := "-"
	if r.Quantity != nil {
		shares = fmt.Sprintf("%d shares", *r.Quantity)
	}
	return Row{
		Ticker: r.Ticker,
		Name:   r.Name,
		Shares: shares,
		Price:  FormatCents(r.CurrentPriceCents, r.Currency),
	}
}

// -----------------------------------------------------------------------------

// Rows formats the visible records of a content view. Other views have no rows.
func Rows(view models.PortfolioView) []Row {
	rows := []Row{}
	switch v := view.(type) {
	case models.ContentView:
		for _, r := range v.Visible {
			rows = append(rows, NewRow(r))
		}
	case models.LoadingView, models.ErrorView:
	}
	return rows
}

// -----------------------------------------------------------------------------

// Markdown renders any view as a markdown document.
func Markdown(view models.PortfolioView) string {
	var sb strings.Builder
	sb.WriteString("# Portfolio\n\n")

	switch v := view.(type) {
	case models.LoadingView:
		sb.WriteString("_Loading..._\n")
	case models.ErrorView:
		fmt.Fprintf(&sb, "**Error** %s\n", v.Message)
	case models.ContentView:
		if len(v.Visible) == 0 {
			sb.WriteString(EmptyMessage + "\n")
			break
		}
		sb.WriteString("| Ticker | Name | Shares | Price |\n")
		sb.WriteString("|:---|:---|---:|---:|\n")
		for _, row := range Rows(v) {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				escapeCell(row.Ticker), escapeCell(row.Name), row.Shares, row.Price)
		}
		if len(v.Visible) != len(v.Full) {
			fmt.Fprintf(&sb, "\n_%d of %d holdings shown_\n", len(v.Visible), len(v.Full))
		}
	}
	return sb.String()
}

// JournalMarkdown renders recent load events, newest first.
func JournalMarkdown(events []models.MLoadEvent) string {
	var sb strings.Builder
	sb.WriteString("# Recent loads\n\n")
	if len(events) == 0 {
		sb.WriteString("No loads recorded\n")
		return sb.String()
	}

	sb.WriteString("| Started | Duration | Outcome | Status | Holdings | Error |\n")
	sb.WriteString("|:---|---:|:---|---:|---:|:---|\n")
	for _, e := range events {
		fmt.Fprintf(&sb, "| %s | %s | %s | %d | %d/%d | %s |\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.FinishedAt.Sub(e.StartedAt).Round(time.Millisecond),
			e.Outcome, e.StatusCode, e.Holdings, e.Records, escapeCell(e.Error))
	}
	return sb.String()
}

// -----------------------------------------------------------------------------

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// -----------------------------------------------------------------------------

// Render renders the view for a terminal of the given width.
func Render(view models.PortfolioView, width int) (string, error) {
	return RenderMarkdown(Markdown(view), width)
}

// RenderMarkdown renders any markdown produced by this package.
func RenderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(md)
}
