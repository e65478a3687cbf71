package messages

import "fmt"

type ActionKind int

const (
	IGNORE ActionKind = iota
	SYSTEM_NOTICE
	PEER_JOINED
	PEER_LEFT
	PUBLIC_MESSAGE_RECEIVED
)

func (k ActionKind) String() string {
	switch k {
	case IGNORE:
		return "IGNORE"
	case SYSTEM_NOTICE:
		return "SYSTEM_NOTICE"
	case PEER_JOINED:
		return "PEER_JOINED"
	case PEER_LEFT:
		return "PEER_LEFT"
	case PUBLIC_MESSAGE_RECEIVED:
		return "PUBLIC_MESSAGE_RECEIVED"
	}

	return "UNKNOWN"
}

type Action struct {
	Kind   ActionKind
	Sender string
	Text   string

	// AssignedId is only set when the server assigned an identity to
	// this client.
	AssignedId string
}

func Ignore() Action {
	return Action{Kind: IGNORE}
}

func (a Action) Ignored() bool {
	return a.Kind == IGNORE
}

// Line returns the text to display for this action. Ignored actions
// do not produce any line.
func (a Action) Line() string {
	switch a.Kind {
	case SYSTEM_NOTICE:
		return fmt.Sprintf("[Servidor]: %s", a.Text)
	case PEER_JOINED:
		return fmt.Sprintf("[+] %s", a.Text)
	case PEER_LEFT:
		return fmt.Sprintf("[-] %s", a.Text)
	case PUBLIC_MESSAGE_RECEIVED:
		return fmt.Sprintf("%s: %s", a.Sender, a.Text)
	}

	return ""
}

func LocalEchoLine(text string) string {
	return fmt.Sprintf("Tú: %s", text)
}
