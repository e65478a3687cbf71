package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/Knoblauchpilze/chat-client/pkg/connection"
	"github.com/Knoblauchpilze/chat-client/pkg/dispatcher"
	"github.com/stretchr/testify/assert"
)

const sampleEndpoint = "ws://localhost:4010"

const reasonableWaitTime = 2 * time.Second
const reasonablePollInterval = 5 * time.Millisecond

type transportMock struct {
	connectErr error
	sendErr    error

	incoming chan string
	failures chan error

	lock sync.Mutex
	sent []string

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
	return m.connectErr
}

func (m *transportMock) Read(ctx context.Context) (string, error) {
	select {
	case data, ok := <-m.incoming:
		if !ok {
			return "", errors.NewCode(connection.ErrConnectionClosed)
		}
		return data, nil
	case err := <-m.failures:
		return "", err
	case <-m.closed:
		return "", errors.NewCode(connection.ErrConnectionClosed)
	case <-ctx.Done():
		return "", errors.WrapCode(ctx.Err(), connection.ErrTransportFailure)
	}
}

func (m *transportMock) Send(ctx context.Context, text string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}

	m.sent = append(m.sent, text)
	return nil
}

func (m *transportMock) Close() error {
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

func (m *transportMock) factory() connection.Factory {
	return func() connection.Transport {
		return m
	}
}

type recordingSink struct {
	lock    sync.Mutex
	lines   []string
	scrolls int
}

func (s *recordingSink) AppendLine(text string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lines = append(s.lines, text)
}

func (s *recordingSink) ScrollToBottom() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.scrolls++
}

func (s *recordingSink) snapshot() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *recordingSink) scrollCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.scrolls
}

type testSession struct {
	Session

	queue     dispatcher.Queue
	sink      *recordingSink
	transport *transportMock
}

func newTestSession(t *testing.T) *testSession {
	log := logger.New(os.Stdout)
	transport := newTransportMock()
	sink := &recordingSink{}
	queue := dispatcher.NewQueue(log)

	props := Props{
		Queue:        queue,
		Sink:         sink,
		Transport:    transport.factory(),
		DialTimeout:  reasonableWaitTime,
		WriteTimeout: reasonableWaitTime,
	}

	s := &testSession{
		Session:   New(props, log),
		queue:     queue,
		sink:      sink,
		transport: transport,
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// connect connects the session and waits until the connection is open
// and both notices are displayed.
func (s *testSession) connect(t *testing.T) {
	err := s.Connect(context.Background(), sampleEndpoint)
	assert.Nil(t, err, "Actual err: %v", err)

	s.waitForState(t, connection.OPEN)
	s.drainUntil(t, 2)
}

// drainUntil runs the dispatcher until the sink received at least the
// expected number of lines.
func (s *testSession) drainUntil(t *testing.T, count int) {
	condition := func() bool {
		s.queue.Drain()
		return len(s.sink.snapshot()) >= count
	}
	assert.Eventually(t, condition, reasonableWaitTime, reasonablePollInterval, "Actual lines: %v", s.sink.snapshot())
}

func (s *testSession) waitForState(t *testing.T, state connection.State) {
	condition := func() bool {
		return s.State() == state
	}
	assert.Eventually(t, condition, reasonableWaitTime, reasonablePollInterval, "Actual state: %v", s.State())
}

func (s *testSession) waitForDone(t *testing.T) {
	select {
	case <-s.Done():
	case <-time.After(reasonableWaitTime):
		assert.Fail(t, "Session did not terminate in time")
	}
}

// receive pushes a frame to the session and waits until it went through
// the notification pipeline by pushing a marker frame after it.
func (s *testSession) receive(t *testing.T, frames ...string) {
	for _, frame := range frames {
		s.transport.incoming <- frame
	}

	before := len(s.sink.snapshot())
	marker := `{"event":"player-connected","data":{"msg":"marker","id":"marker-id"}}`
	s.transport.incoming <- marker

	condition := func() bool {
		s.queue.Drain()
		lines := s.sink.snapshot()
		return len(lines) > before && lines[len(lines)-1] == "[+] marker"
	}
	assert.Eventually(t, condition, reasonableWaitTime, reasonablePollInterval, "Actual lines: %v", s.sink.snapshot())

	s.sink.lock.Lock()
	defer s.sink.lock.Unlock()
	s.sink.lines = s.sink.lines[:len(s.sink.lines)-1]
}
