package connection

type State int32

const (
	IDLE State = iota
	CONNECTING
	OPEN
	CLOSING
	CLOSED
)

func (s State) String() string {
	switch s {
	case IDLE:
		return "IDLE"
	case CONNECTING:
		return "CONNECTING"
	case OPEN:
		return "OPEN"
	case CLOSING:
		return "CLOSING"
	case CLOSED:
		return "CLOSED"
	}

	return "UNKNOWN"
}
