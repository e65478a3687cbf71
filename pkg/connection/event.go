package connection

type EventKind int

const (
	OPENED EventKind = iota
	DATA_RECEIVED
	FAILED
	TERMINATED
)

// Event is a notification raised by the transport. Events are produced
// by the goroutine reading from the transport and consumed in order by
// the state machine.
type Event struct {
	Kind EventKind
	Data string
	Err  error
}
