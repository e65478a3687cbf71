package messages

// Route classifies an inbound event. Events emitted on behalf of the
// client itself are ignored as the server broadcasts them to everyone
// including the originator. Route is pure: it is up to the caller to
// record the identity carried by the returned action.
func Route(event InboundEvent, selfId string) Action {
	switch event.Tag {
	case CONNECTED_TO_SERVER:
		return Action{
			Kind:       SYSTEM_NOTICE,
			Text:       event.Message,
			AssignedId: event.OriginId,
		}
	case PLAYER_CONNECTED:
		return routeFromPeer(event, selfId, PEER_JOINED)
	case PLAYER_DISCONNECTED:
		return routeFromPeer(event, selfId, PEER_LEFT)
	case PUBLIC_MESSAGE:
		return routeFromPeer(event, selfId, PUBLIC_MESSAGE_RECEIVED)
	}

	return Ignore()
}

// RouteRaw decodes and routes a raw payload. Payloads that can't be
// decoded are ignored and the decoding error is returned for logging.
func RouteRaw(raw string, selfId string) (Action, InboundEvent, error) {
	event, err := Decode(raw)
	if err != nil {
		return Ignore(), event, err
	}

	return Route(event, selfId), event, nil
}

func routeFromPeer(event InboundEvent, selfId string, kind ActionKind) Action {
	if event.OriginId == selfId {
		return Ignore()
	}

	action := Action{
		Kind: kind,
		Text: event.Message,
	}
	if kind == PUBLIC_MESSAGE_RECEIVED {
		action.Sender = event.OriginId
	}

	return action
}
