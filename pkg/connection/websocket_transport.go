package connection

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	bterr "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/coder/websocket"
)

type websocketTransport struct {
	lock   sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func NewWebsocketTransport() Transport {
	return &websocketTransport{}
}

func (t *websocketTransport) Connect(ctx context.Context, url string) error {
	if t.current() != nil {
		return bterr.NewCode(ErrAlreadyConnected)
	}

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return bterr.WrapCode(err, ErrDialFailed)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		// Closed while dialing.
		conn.CloseNow()
		return bterr.NewCode(ErrConnectionClosed)
	}

	t.conn = conn

	return nil
}

func (t *websocketTransport) Read(ctx context.Context) (string, error) {
	conn := t.current()
	if conn == nil {
		return "", bterr.NewCode(ErrNotOpen)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		return "", t.interpretError(err)
	}

	return string(data), nil
}

func (t *websocketTransport) Send(ctx context.Context, text string) error {
	conn := t.current()
	if conn == nil {
		return bterr.NewCode(ErrNotOpen)
	}

	err := conn.Write(ctx, websocket.MessageText, []byte(text))
	if err != nil {
		return t.interpretError(err)
	}

	return nil
}

func (t *websocketTransport) Close() error {
	t.lock.Lock()
	if t.closed {
		t.lock.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.lock.Unlock()

	if conn == nil {
		return nil
	}

	err := conn.Close(websocket.StatusNormalClosure, "")
	if err == nil || isNormalClosure(err) {
		return nil
	}

	return bterr.WrapCode(err, ErrTransportFailure)
}

func (t *websocketTransport) current() *websocket.Conn {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.conn
}

func (t *websocketTransport) isClosed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.closed
}

func (t *websocketTransport) interpretError(err error) error {
	if isNormalClosure(err) || t.isClosed() {
		return bterr.WrapCode(err, ErrConnectionClosed)
	}

	return bterr.WrapCode(err, ErrTransportFailure)
}

func isNormalClosure(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}

	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
