package messages

type InboundEvent struct {
	Tag      EventTag
	OriginId string
	Message  string
}

type OutboundEvent struct {
	Tag     EventTag
	Message string
}

func NewPublicMessage(text string) OutboundEvent {
	return OutboundEvent{
		Tag:     SEND_PUBLIC_MESSAGE,
		Message: text,
	}
}
