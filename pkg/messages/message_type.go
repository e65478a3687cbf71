package messages

type EventTag string

const (
	CONNECTED_TO_SERVER EventTag = "connected-to-server"
	PLAYER_CONNECTED    EventTag = "player-connected"
	PLAYER_DISCONNECTED EventTag = "player-disconnected"
	PUBLIC_MESSAGE      EventTag = "public-message"

	SEND_PUBLIC_MESSAGE EventTag = "send-public-message"
)

// Known reports whether the tag is one of the inbound tags the client
// reacts to. Unknown tags are still valid on the wire.
func (t EventTag) Known() bool {
	switch t {
	case CONNECTED_TO_SERVER, PLAYER_CONNECTED, PLAYER_DISCONNECTED, PUBLIC_MESSAGE:
		return true
	}

	return false
}

func (t EventTag) String() string {
	return string(t)
}
