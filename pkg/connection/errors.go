package connection

import "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"

const (
	ErrAlreadyConnected errors.ErrorCode = 100
	ErrNotOpen          errors.ErrorCode = 101
	ErrDialFailed       errors.ErrorCode = 102
	ErrConnectionClosed errors.ErrorCode = 103
	ErrTransportFailure errors.ErrorCode = 104
	ErrUnknownTransport errors.ErrorCode = 105
)
