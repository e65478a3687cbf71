package messages

import "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"

const (
	ErrUnrecognizedMessageFormat errors.ErrorCode = 300
	ErrMissingMessageData        errors.ErrorCode = 301
	ErrMessageDecodingFailed     errors.ErrorCode = 302
	ErrMessageEncodingFailed     errors.ErrorCode = 303
)
