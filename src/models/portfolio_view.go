package models

import (
	"encoding/json"
	"fmt"
)

// -----------------------------------------------------------------------------
// PortfolioView
// -----------------------------------------------------------------------------

// View kinds as they appear on the wire.
const (
	ViewKindLoading = "loading"
	ViewKindContent = "content"
	ViewKindError   = "error"
)

// PortfolioView is the state published by the portfolio state machine.
// The set of implementations is closed: LoadingView, ContentView and ErrorView.
// Consumers switch on the concrete type and must handle all three.
type PortfolioView interface {
	Kind() string
	isPortfolioView()
}

// LoadingView means a fetch is in flight or has not started yet.
type LoadingView struct{}

// ContentView holds the holdings of the last successful fetch.
// Full is never modified after publication; Visible is the filtered subset.
type ContentView struct {
	Visible []MStockRecord
	Full    []MStockRecord
}

// ErrorView means the last fetch failed. No data from earlier loads is kept.
type ErrorView struct {
	Message string
}

func (LoadingView) Kind() string { return ViewKindLoading }
func (ContentView) Kind() string { return ViewKindContent }
func (ErrorView) Kind() string   { return ViewKindError }

func (LoadingView) isPortfolioView() {}
func (ContentView) isPortfolioView() {}
func (ErrorView) isPortfolioView()   {}

// -----------------------------------------------------------------------------

func (v LoadingView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		State string `json:"state"`
	}{State: v.Kind()})
}

// -----------------------------------------------------------------------------

func (v ContentView) MarshalJSON() ([]byte, error) {
	visible, full := v.Visible, v.Full
	if visible == nil {
		visible = []MStockRecord{}
	}
	if full == nil {
		full = []MStockRecord{}
	}
	return json.Marshal(struct {
		State   string         `json:"state"`
		Visible []MStockRecord `json:"visible"`
		Full    []MStockRecord `json:"full"`
	}{State: v.Kind(), Visible: visible, Full: full})
}

// -----------------------------------------------------------------------------

func (v ErrorView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		State   string `json:"state"`
		Message string `json:"message"`
	}{State: v.Kind(), Message: v.Message})
}

// -----------------------------------------------------------------------------

// UnmarshalView decodes the JSON produced by the views' MarshalJSON.
func UnmarshalView(data []byte) (PortfolioView, error) {
	var raw struct {
		State   string         `json:"state"`
		Visible []MStockRecord `json:"visible"`
		Full    []MStockRecord `json:"full"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.State {
	case ViewKindLoading:
		return LoadingView{}, nil
	case ViewKindContent:
		if raw.Visible == nil {
			raw.Visible = []MStockRecord{}
		}
		if raw.Full == nil {
			raw.Full = []MStockRecord{}
		}
		return ContentView{Visible: raw.Visible, Full: raw.Full}, nil
	case ViewKindError:
		return ErrorView{Message: raw.Message}, nil
	}
	return nil, fmt.Errorf("unknown view state %q", raw.State)
}
