package messages

import (
	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/tidwall/sjson"
)

// Encode produces the wire representation of an outbound event. The
// payload never carries the identity of the sender: the server knows
// it from the connection.
func Encode(event OutboundEvent) (string, error) {
	out, err := sjson.Set("", outboundFields.tag, string(event.Tag))
	if err != nil {
		return "", errors.WrapCode(err, ErrMessageEncodingFailed)
	}

	out, err = sjson.Set(out, outboundFields.message, event.Message)
	if err != nil {
		return "", errors.WrapCode(err, ErrMessageEncodingFailed)
	}

	return out, nil
}

// EncodeInbound produces the representation of an event as a server
// would send it.
func EncodeInbound(event InboundEvent) (string, error) {
	out, err := sjson.Set("", inboundFields.tag, string(event.Tag))
	if err != nil {
		return "", errors.WrapCode(err, ErrMessageEncodingFailed)
	}

	fields := []struct {
		path  string
		value string
	}{
		{path: inboundFields.data + "." + inboundFields.message, value: event.Message},
		{path: inboundFields.data + "." + inboundFields.origin, value: event.OriginId},
	}

	for _, field := range fields {
		out, err = sjson.Set(out, field.path, field.value)
		if err != nil {
			return "", errors.WrapCode(err, ErrMessageEncodingFailed)
		}
	}

	return out, nil
}
