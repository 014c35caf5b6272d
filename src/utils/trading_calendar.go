package utils

import (
	"strings"
	"sync"
	"time"

	"portfolio-viewer/src/logger"

	"github.com/scmhub/calendar"
)

// Ticker suffix to MIC code (ISO 10383). Tickers without a known suffix
// trade on NYSE.
var suffixMIC = map[string]string{
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

const defaultMIC = "xnys"

// -----------------------------------------------------------------------------

// MICForTicker maps a ticker such as "VOD.L" to its exchange.
func MICForTicker(ticker string) string {
	if i := strings.LastIndex(ticker, "."); i > 0 {
		if mic, ok := suffixMIC[ticker[i:]]; ok {
			return mic
		}
	}
	return defaultMIC
}

// -----------------------------------------------------------------------------

// TradingCalendar answers "is this market open" using scmhub/calendar,
// or Mon-Fri 09:30-16:00 New York time when no calendar is available.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

func NewTradingCalendar(mic string, log *logger.Logger) *TradingCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar(defaultMIC)
	}

	if cal == nil {
		log.Warning("No calendar for MIC '%s' or '%s', using Mon-Fri 09:30-16:00 New York time", mic, defaultMIC)
		nyLoc, err := time.LoadLocation("America/New_York")
		if err != nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsOpen(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}
		minutes := t.Hour()*60 + t.Minute()
		return minutes >= 9*60+30 && minutes < 16*60
	}

	return tc.Calendar.IsOpen(t)
}

// -----------------------------------------------------------------------------
// MarketHours
// -----------------------------------------------------------------------------

// MarketHours caches one calendar per exchange.
type MarketHours struct {
	Logger    *logger.Logger
	calendars map[string]*TradingCalendar
	mu        sync.Mutex
}

func NewMarketHours(log *logger.Logger) *MarketHours {
	return &MarketHours{
		Logger:    log,
		calendars: make(map[string]*TradingCalendar),
	}
}

// -----------------------------------------------------------------------------

func (m *MarketHours) calendarFor(mic string) *TradingCalendar {
	m.mu.Lock()
	defer m.mu.Unlock()

	cal, ok := m.calendars[mic]
	if !ok {
		cal = NewTradingCalendar(mic, m.Logger)
		m.calendars[mic] = cal
	}
	return cal
}

// -----------------------------------------------------------------------------

// AnyOpen reports whether the exchange of at least one ticker is open at t.
func (m *MarketHours) AnyOpen(tickers []string, t time.Time) bool {
	seen := make(map[string]struct{})
	for _, ticker := range tickers {
		mic := MICForTicker(ticker)
		if _, ok := seen[mic]; ok {
			continue
		}
		seen[mic] = struct{}{}

		if m.calendarFor(mic).IsOpen(t) {
			return true
		}
	}
	return false
}
