package connection

import (
	"context"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
)

// Transport is the minimal surface of a websocket library used by the
// state machine. Implementations must allow Read to run concurrently
// with Send and Close, and Close must be idempotent.
type Transport interface {
	Connect(ctx context.Context, url string) error
	// Read blocks until a message is received. It returns an error with
	// code ErrConnectionClosed when the connection was closed normally.
	Read(ctx context.Context) (string, error)
	Send(ctx context.Context, text string) error
	Close() error
}

type Factory func() Transport

const (
	CoderTransport   = "coder"
	GorillaTransport = "gorilla"
)

func NewFactory(kind string) (Factory, error) {
	switch kind {
	case "", CoderTransport:
		return NewWebsocketTransport, nil
	case GorillaTransport:
		return NewGorillaTransport, nil
	}

	return nil, errors.NewCode(ErrUnknownTransport)
}
