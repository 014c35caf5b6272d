package interfaces

// -----------------------------------------------------------------------------
// IDataExchanger defining the interface for sharing portfolio views with
// external systems (HTTP/websocket, gRPC).
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Start the server (blocking)
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
