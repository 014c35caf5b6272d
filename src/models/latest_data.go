package models

// -----------------------------------------------------------------------------
// Websocket messages
// -----------------------------------------------------------------------------

// MViewMessage is pushed to every websocket client on each view change.
type MViewMessage struct {
	Type      string        `json:"type"` // "INITIAL", "UPDATE" or "ERROR"
	View      PortfolioView `json:"view"`
	Timestamp int64         `json:"timestamp"`
	Error     string        `json:"error,omitempty"`
}

const (
	MessageInitial = "INITIAL"
	MessageUpdate  = "UPDATE"
	MessageError   = "ERROR"
)

// -----------------------------------------------------------------------------

// MClientCommand is a message sent by a websocket client.
type MClientCommand struct {
	Command string `json:"command"` // "load" or "search"
	Query   string `json:"query"`
}
