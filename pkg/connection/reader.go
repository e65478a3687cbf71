package connection

import (
	"context"

	bterr "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/Knoblauchpilze/chat-client/pkg/errors"
)

func readFromTransport(ctx context.Context, transport Transport) Event {
	var data string
	var err error

	readPanic := errors.SafeRunSync(func() {
		data, err = transport.Read(ctx)
	})

	if readPanic != nil {
		return Event{Kind: FAILED, Err: bterr.WrapCode(readPanic, ErrTransportFailure)}
	}
	if err != nil {
		return Event{Kind: FAILED, Err: err}
	}

	return Event{Kind: DATA_RECEIVED, Data: data}
}
