package chattest

import "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"

const (
	ErrUnknownClient errors.ErrorCode = 500
)
