package connection

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	bterr "github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/gorilla/websocket"
)

const gorillaCloseFrameTimeout = 1 * time.Second

type gorillaTransport struct {
	dialer *websocket.Dialer

	lock   sync.Mutex
	conn   *websocket.Conn
	closed bool

	// gorilla connections support one concurrent writer at most.
	writeLock sync.Mutex
}

func NewGorillaTransport() Transport {
	return &gorillaTransport{
		dialer: websocket.DefaultDialer,
	}
}

func (t *gorillaTransport) Connect(ctx context.Context, url string) error {
	if t.current() != nil {
		return bterr.NewCode(ErrAlreadyConnected)
	}

	conn, _, err := t.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return bterr.WrapCode(err, ErrDialFailed)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		conn.Close()
		return bterr.NewCode(ErrConnectionClosed)
	}

	t.conn = conn

	return nil
}

func (t *gorillaTransport) Read(ctx context.Context) (string, error) {
	conn := t.current()
	if conn == nil {
		return "", bterr.NewCode(ErrNotOpen)
	}

	// gorilla does not support contexts: interrupt the read by closing
	// the connection when the context is done.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	_, data, err := conn.ReadMessage()
	if err != nil {
		return "", t.interpretError(err)
	}

	return string(data), nil
}

func (t *gorillaTransport) Send(ctx context.Context, text string) error {
	conn := t.current()
	if conn == nil {
		return bterr.NewCode(ErrNotOpen)
	}

	t.writeLock.Lock()
	defer t.writeLock.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return t.interpretError(err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return t.interpretError(err)
	}

	return nil
}

func (t *gorillaTransport) Close() error {
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

	func() {
		t.writeLock.Lock()
		defer t.writeLock.Unlock()

		// The close frame is best effort: the peer might already be gone.
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(gorillaCloseFrameTimeout))
	}()

	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return bterr.WrapCode(err, ErrTransportFailure)
	}

	return nil
}

func (t *gorillaTransport) current() *websocket.Conn {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.conn
}

func (t *gorillaTransport) isClosed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.closed
}

func (t *gorillaTransport) interpretError(err error) error {
	normal := websocket.IsCloseError(
		err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
	)
	if normal || errors.Is(err, io.EOF) || t.isClosed() {
		return bterr.WrapCode(err, ErrConnectionClosed)
	}

	return bterr.WrapCode(err, ErrTransportFailure)
}
