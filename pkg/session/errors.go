package session

import "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"

const (
	ErrSessionAlreadyConnected errors.ErrorCode = 400
	ErrInvalidEndpoint         errors.ErrorCode = 401
	ErrSessionClosed           errors.ErrorCode = 402
)
