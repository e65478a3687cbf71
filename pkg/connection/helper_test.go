package connection

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var sampleUuid = uuid.MustParse("2dbf2622-2a95-4bd1-9b38-2f7b4ce65ffe")
var errSample = fmt.Errorf("some error")

const reasonableWaitTime = 2 * time.Second
const reasonablePollInterval = 5 * time.Millisecond

type transportMock struct {
	connectErr error
	sendErr    error
	// Makes Connect wait until its context is done.
	blockConnect bool

	incoming chan string
	failures chan error

	lock         sync.Mutex
	sent         []string
	connectCalls int
	closeCalls   int

	closed    chan struct{}
	closeOnce sync.Once
}

func newTransportMock() *transportMock {
	return &transportMock{
		incoming: make(chan string, 10),
		failures: make(chan error, 1),
		closed:   make(chan struct{}),
	}
}

func (m *transportMock) Connect(ctx context.Context, url string) error {
	m.lock.Lock()
	m.connectCalls++
	m.lock.Unlock()

	if m.connectErr != nil {
		return m.connectErr
	}

	if m.blockConnect {
		<-ctx.Done()
		return errors.WrapCode(ctx.Err(), ErrDialFailed)
	}

	select {
	case <-ctx.Done():
		return errors.WrapCode(ctx.Err(), ErrDialFailed)
	default:
		return nil
	}
}

func (m *transportMock) Read(ctx context.Context) (string, error) {
	select {
	case data, ok := <-m.incoming:
		if !ok {
			return "", errors.NewCode(ErrConnectionClosed)
		}
		return data, nil
	case err := <-m.failures:
		return "", err
	case <-m.closed:
		return "", errors.NewCode(ErrConnectionClosed)
	case <-ctx.Done():
		return "", errors.WrapCode(ctx.Err(), ErrTransportFailure)
	}
}

func (m *transportMock) Send(ctx context.Context, text string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.sent = append(m.sent, text)
	return m.sendErr
}

func (m *transportMock) Close() error {
	m.lock.Lock()
	m.closeCalls++
	m.lock.Unlock()

	m.closeOnce.Do(func() {
		close(m.closed)
	})

	return nil
}

func (m *transportMock) sentMessages() []string {
	m.lock.Lock()
	defer m.lock.Unlock()

	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

type callbackRecorder struct {
	lock   sync.Mutex
	events []string
	errs   []error
	ids    []uuid.UUID
}

func (r *callbackRecorder) callbacks() Callbacks {
	return Callbacks{
		OpenCallback: func(id uuid.UUID) {
			r.record(id, "open", nil)
		},
		MessageCallback: func(id uuid.UUID, data string) {
			r.record(id, "message:"+data, nil)
		},
		ErrorCallback: func(id uuid.UUID, err error) {
			r.record(id, "error", err)
		},
		CloseCallback: func(id uuid.UUID) {
			r.record(id, "close", nil)
		},
	}
}

func (r *callbackRecorder) record(id uuid.UUID, event string, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.ids = append(r.ids, id)
	r.events = append(r.events, event)
	if err != nil {
		r.errs = append(r.errs, err)
	}
}

func (r *callbackRecorder) snapshot() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *callbackRecorder) recordedErrors() []error {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

func newTestMachine(transport Transport, recorder *callbackRecorder) Machine {
	opts := Options{
		Id:           sampleUuid,
		DialTimeout:  reasonableWaitTime,
		WriteTimeout: reasonableWaitTime,
		Callbacks:    recorder.callbacks(),
	}

	return New(transport, opts, logger.New(os.Stdout))
}

func waitForState(t *testing.T, m Machine, state State) {
	condition := func() bool {
		return m.State() == state
	}
	assert.Eventually(t, condition, reasonableWaitTime, reasonablePollInterval, "Actual state: %v", m.State())
}

func waitForEvents(t *testing.T, r *callbackRecorder, count int) {
	condition := func() bool {
		return len(r.snapshot()) >= count
	}
	assert.Eventually(t, condition, reasonableWaitTime, reasonablePollInterval, "Actual events: %v", r.snapshot())
}

func waitForDone(t *testing.T, m Machine) {
	select {
	case <-m.Done():
	case <-time.After(reasonableWaitTime):
		assert.Fail(t, "Machine did not terminate in time")
	}
}

type testServer struct {
	t      *testing.T
	server *httptest.Server

	conns    chan *websocket.Conn
	received chan string
}

func newTestServer(t *testing.T) *testServer {
	// https://github.com/coder/websocket/blob/e4379472fe1dfe70032ecc68fec08b1b3a8fc996/internal/examples/echo/server_test.go#L18
	s := &testServer{
		t:        t,
		conns:    make(chan *websocket.Conn, 1),
		received: make(chan string, 10),
	}

	s.server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.server.Close)

	return s
}

func (s *testServer) serveHTTP(rw http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(rw, req, nil)
	if !assert.Nil(s.t, err, "Actual err: %v", err) {
		return
	}

	s.conns <- conn

	// Reading is required for close frames to be answered.
	go func() {
		for {
			_, data, err := conn.Read(context.Background())
			if err != nil {
				return
			}
			s.received <- string(data)
		}
	}()
}

func (s *testServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *testServer) waitForConnection() *websocket.Conn {
	select {
	case conn := <-s.conns:
		return conn
	case <-time.After(reasonableWaitTime):
		assert.Fail(s.t, "No connection received in time")
		return nil
	}
}

func (s *testServer) waitForMessage() string {
	select {
	case msg := <-s.received:
		return msg
	case <-time.After(reasonableWaitTime):
		assert.Fail(s.t, "No message received in time")
		return ""
	}
}

func writeToConnection(t *testing.T, conn *websocket.Conn, data string) {
	err := conn.Write(context.Background(), websocket.MessageText, []byte(data))
	assert.Nil(t, err, "Actual err: %v", err)
}
