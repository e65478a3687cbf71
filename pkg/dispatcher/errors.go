package dispatcher

import "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"

const (
	ErrTaskPanicked errors.ErrorCode = 200
)
