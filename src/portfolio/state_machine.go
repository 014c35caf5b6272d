// Package portfolio owns the portfolio view: it runs the fetch, applies the
// ownership filter and the search filter, and publishes every new view to
// subscribers.
package portfolio

import (
	"context"
	"sync"

	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"
)

// FetchFailedMessage is the only error text ever shown for a failed load.
const FetchFailedMessage = "Could not get stocks"

// -----------------------------------------------------------------------------

// StateMachine is the single owner of one portfolio view.
// Every mutation replaces the whole view under mu; views are never edited
// in place after publication.
type StateMachine struct {
	fetcher interfaces.IPortfolioFetcher
	Logger  *logger.Logger

	mu          sync.RWMutex
	view        models.PortfolioView
	subscribers map[uint64]chan models.PortfolioView
	nextID      uint64
}

// -----------------------------------------------------------------------------

// NewStateMachine starts in LoadingView.
func NewStateMachine(fetcher interfaces.IPortfolioFetcher, log *logger.Logger) *StateMachine {
	return &StateMachine{
		fetcher:     fetcher,
		Logger:      log,
		view:        models.LoadingView{},
		subscribers: make(map[uint64]chan models.PortfolioView),
	}
}

// -----------------------------------------------------------------------------

// State returns the current view.
func (m *StateMachine) State() models.PortfolioView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// -----------------------------------------------------------------------------

// Load publishes LoadingView before returning, then fetches in the
// background. The returned channel is closed once this load has published
// its final view.
//
// Overlapping loads are not cancelled: whichever fetch completes last
// decides the final view. Cancelling ctx does not abort the fetch.
func (m *StateMachine) Load(ctx context.Context) <-chan struct{} {
	m.publish(models.LoadingView{})

	done := make(chan struct{})
	fetchCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(done)

		records, err := m.fetcher.FetchStocks(fetchCtx)
		if err != nil {
			m.Logger.Warning("Load failed: %v", err)
			m.publish(models.ErrorView{Message: FetchFailedMessage})
			return
		}

		holdings := Holdings(records)
		m.Logger.Info("Loaded %d records, %d holdings", len(records), len(holdings))
		m.publish(models.ContentView{Visible: holdings, Full: holdings})
	}()

	return done
}

// -----------------------------------------------------------------------------

// Search narrows the visible list to exact ticker or name matches.
// It only acts on ContentView and reports whether it did.
func (m *StateMachine) Search(query string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch current := m.view.(type) {
	case models.ContentView:
		m.replaceLocked(models.ContentView{
			Visible: Filter(current.Full, query),
			Full:    current.Full,
		})
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

// Subscribe registers an observer. The channel immediately holds the current
// view and afterwards always converges to the latest one: a slow reader may
// skip intermediate views but never sees a stale view as the last value.
// cancel unregisters and closes the channel.
func (m *StateMachine) Subscribe() (<-chan models.PortfolioView, func()) {
	ch := make(chan models.PortfolioView, 1)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = ch
	ch <- m.view
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, id)
			close(ch)
			m.mu.Unlock()
		})
	}
	return ch, cancel
}

// -----------------------------------------------------------------------------

func (m *StateMachine) publish(view models.PortfolioView) {
	m.mu.Lock()
	m.replaceLocked(view)
	m.mu.Unlock()
}

// -----------------------------------------------------------------------------

// replaceLocked swaps the view and notifies subscribers. Caller holds mu.
func (m *StateMachine) replaceLocked(view models.PortfolioView) {
	m.view = view
	for _, ch := range m.subscribers {
		select {
		case ch <- view:
		default:
			// Drop the unread view and replace it with the newest one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}
