package messages

import (
	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/tidwall/gjson"
)

func Decode(raw string) (InboundEvent, error) {
	var out InboundEvent

	if !gjson.Valid(raw) {
		return out, errors.NewCode(ErrUnrecognizedMessageFormat)
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return out, errors.NewCode(ErrUnrecognizedMessageFormat)
	}

	data := root.Get(inboundFields.data)
	if !data.IsObject() {
		return out, errors.NewCode(ErrMissingMessageData)
	}

	tag, err := decodeString(root, inboundFields.tag)
	if err != nil {
		return out, err
	}
	out.Tag = EventTag(tag)

	if out.Message, err = decodeString(data, inboundFields.message); err != nil {
		return out, err
	}
	if out.OriginId, err = decodeString(data, inboundFields.origin); err != nil {
		return out, err
	}

	return out, nil
}

// decodeString accepts missing and null fields as empty strings but
// rejects any other non string value.
func decodeString(object gjson.Result, path string) (string, error) {
	value := object.Get(path)

	switch value.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return value.String(), nil
	}

	return "", errors.NewCode(ErrMessageDecodingFailed)
}
