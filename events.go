package tn3270

// Event is the sealed interface for values delivered on a Connection's
// event channel. A caller range-loops over Connection.Events() and type
// switches on the concrete type.
type Event interface {
	isEvent()
}

// ConnectedEvent fires once, after the TCP (and, if requested, TLS) dial
// succeeds and the receive loop has started.
type ConnectedEvent struct{}

// DisconnectedEvent fires once, when the connection ends for any reason.
// Err is nil for a caller-initiated Close.
type DisconnectedEvent struct {
	Err error
}

// DataRecordEvent fires each time an inbound 3270 data record (other than
// an auto-answered Query) has been applied to Screen. Screen is the same
// instance every time; callers that need a snapshot should copy fields out
// of it before the next record arrives.
type DataRecordEvent struct {
	Screen *Screen
}

// ErrorEvent fires for a tolerated anomaly that doesn't end the connection
// (an unknown write command or order, or a truncated record), ahead of that
// record's DataRecordEvent. It also fires once for an error that ends the
// connection, ahead of the DisconnectedEvent.
type ErrorEvent struct {
	Err *ConnError
}

func (ConnectedEvent) isEvent()    {}
func (DisconnectedEvent) isEvent() {}
func (DataRecordEvent) isEvent()   {}
func (ErrorEvent) isEvent()        {}
