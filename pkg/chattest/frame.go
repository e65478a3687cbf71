package chattest

import (
	"github.com/Knoblauchpilze/chat-client/pkg/messages"
	"github.com/tidwall/gjson"
)

// Frame is a public message sent by a client to the hub.
type Frame struct {
	ClientId string
	Message  string
}

// parseOutbound extracts the text of a message sent by a client. Frames
// which are not public messages are reported as not ok.
func parseOutbound(raw string) (string, bool) {
	if !gjson.Valid(raw) {
		return "", false
	}

	parsed := gjson.Parse(raw)
	if parsed.Get("event").String() != messages.SEND_PUBLIC_MESSAGE.String() {
		return "", false
	}

	text := parsed.Get("data.message")
	if text.Type != gjson.String {
		return "", false
	}

	return text.String(), true
}

func welcomeMessage(id string) string {
	return "Bienvenido " + id
}

func joinedMessage(id string) string {
	return id + " se ha conectado"
}

func leftMessage(id string) string {
	return id + " se ha desconectado"
}
