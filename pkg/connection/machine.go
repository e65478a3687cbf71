package connection

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/google/uuid"
)

type Options struct {
	Id uuid.UUID

	// Bounds how long establishing the connection can take. A value of
	// zero means no limit.
	DialTimeout time.Duration

	// Bounds how long sending a single message can take. A value of zero
	// means no limit.
	WriteTimeout time.Duration

	Callbacks Callbacks
}

// Machine tracks the lifecycle of a single connection. States only move
// forward: once closed a machine can't be reused.
type Machine interface {
	Id() uuid.UUID
	State() State

	// Connect starts establishing the connection in the background. The
	// OnOpen callback is triggered once it succeeds.
	Connect(url string) error
	Send(ctx context.Context, text string) error
	// Close is idempotent. Closing a machine which never connected moves
	// it straight to CLOSED without triggering any callback.
	Close() error

	// Done is closed once the machine reached CLOSED and all the
	// callbacks were triggered.
	Done() <-chan struct{}
}

const eventsBufferSize = 16

type machineImpl struct {
	id        uuid.UUID
	transport Transport
	callbacks Callbacks
	log       logger.Logger

	dialTimeout  time.Duration
	writeTimeout time.Duration

	state atomic.Int32

	// Set when a send failed: the failure is reported once the read loop
	// stops.
	failureLock sync.Mutex
	sendFailure error

	ctx    context.Context
	cancel context.CancelFunc

	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func New(transport Transport, opts Options, log logger.Logger) Machine {
	ctx, cancel := context.WithCancel(context.Background())

	m := &machineImpl{
		id:        opts.Id,
		transport: transport,
		callbacks: opts.Callbacks,
		log:       log,

		dialTimeout:  opts.DialTimeout,
		writeTimeout: opts.WriteTimeout,

		ctx:    ctx,
		cancel: cancel,

		events: make(chan Event, eventsBufferSize),
		done:   make(chan struct{}),
	}

	if m.id == uuid.Nil {
		m.id = uuid.New()
	}
	m.state.Store(int32(IDLE))

	return m
}

func (m *machineImpl) Id() uuid.UUID {
	return m.id
}

func (m *machineImpl) State() State {
	return State(m.state.Load())
}

func (m *machineImpl) Connect(url string) error {
	if !m.transition(CONNECTING, IDLE) {
		return errors.NewCode(ErrAlreadyConnected)
	}

	m.log.Infof("Connection %v: connecting to %s", m.id, url)

	go m.notifyLoop()
	go m.activeLoop(url)

	return nil
}

func (m *machineImpl) Send(ctx context.Context, text string) error {
	if m.State() != OPEN {
		return errors.NewCode(ErrNotOpen)
	}

	if m.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.writeTimeout)
		defer cancel()
	}

	err := m.transport.Send(ctx, text)
	if err == nil {
		return nil
	}

	err = errors.WrapCode(err, ErrTransportFailure)
	if m.closeOnSendFailure(err) {
		m.log.Warnf("Connection %v: failed to send message: %v", m.id, err)
		// Interrupts the read loop which will terminate the connection.
		m.cancel()
	}

	return err
}

func (m *machineImpl) Close() error {
	for {
		switch m.State() {
		case IDLE:
			if m.transition(CLOSED, IDLE) {
				m.cancel()
				m.markDone()
				return nil
			}
		case CONNECTING:
			if m.transition(CLOSING, CONNECTING) {
				m.log.Infof("Connection %v: aborting connection", m.id)
				m.cancel()
				return nil
			}
		case OPEN:
			if m.transition(CLOSING, OPEN) {
				m.log.Infof("Connection %v: closing", m.id)
				err := m.transport.Close()
				m.cancel()
				return err
			}
		default:
			return nil
		}
	}
}

func (m *machineImpl) Done() <-chan struct{} {
	return m.done
}

func (m *machineImpl) activeLoop(url string) {
	if err := m.dial(url); err != nil {
		m.events <- Event{Kind: FAILED, Err: err}
	} else {
		m.events <- Event{Kind: OPENED}
		m.readUntilFailure()
	}

	if err := m.transport.Close(); err != nil {
		m.log.Debugf("Connection %v: failed to release transport: %v", m.id, err)
	}

	m.events <- Event{Kind: TERMINATED}
	close(m.events)
}

func (m *machineImpl) dial(url string) error {
	ctx := m.ctx
	if m.dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.dialTimeout)
		defer cancel()
	}

	return m.transport.Connect(ctx, url)
}

func (m *machineImpl) readUntilFailure() {
	for {
		event := readFromTransport(m.ctx, m.transport)
		m.events <- event

		if event.Kind != DATA_RECEIVED {
			return
		}
	}
}

func (m *machineImpl) notifyLoop() {
	defer m.markDone()

	for event := range m.events {
		m.handle(event)
	}
}

func (m *machineImpl) handle(event Event) {
	switch event.Kind {
	case OPENED:
		if m.transition(OPEN, CONNECTING) {
			m.log.Infof("Connection %v: open", m.id)
			m.callbacks.OnOpen(m.id)
		}
	case DATA_RECEIVED:
		// Data received after a close was requested is not surfaced.
		if m.State() == OPEN {
			m.callbacks.OnMessage(m.id, event.Data)
		}
	case FAILED:
		m.handleFailure(event.Err)
	case TERMINATED:
		m.state.Store(int32(CLOSED))
		m.cancel()
		m.log.Infof("Connection %v: closed", m.id)
		m.callbacks.OnClose(m.id)
	}
}

func (m *machineImpl) handleFailure(err error) {
	moved, sendErr := m.closeOnReadFailure()
	if !moved {
		if sendErr != nil {
			m.callbacks.OnError(m.id, sendErr)
			return
		}

		m.log.Debugf("Connection %v: stopped reading: %v", m.id, err)
		return
	}

	if errors.IsErrorWithCode(err, ErrConnectionClosed) {
		m.log.Infof("Connection %v: closed by peer", m.id)
		return
	}

	m.log.Warnf("Connection %v: failure: %v", m.id, err)
	m.callbacks.OnError(m.id, err)
}

// closeOnSendFailure moves an open connection to CLOSING and keeps the
// error to report it when the read loop stops.
func (m *machineImpl) closeOnSendFailure(err error) bool {
	m.failureLock.Lock()
	defer m.failureLock.Unlock()

	if !m.transition(CLOSING, OPEN) {
		return false
	}

	m.sendFailure = err
	return true
}

func (m *machineImpl) closeOnReadFailure() (bool, error) {
	m.failureLock.Lock()
	defer m.failureLock.Unlock()

	moved := m.transition(CLOSING, CONNECTING, OPEN)
	sendErr := m.sendFailure
	m.sendFailure = nil

	return moved, sendErr
}

func (m *machineImpl) transition(to State, from ...State) bool {
	for _, candidate := range from {
		if m.state.CompareAndSwap(int32(candidate), int32(to)) {
			return true
		}
	}

	return false
}

func (m *machineImpl) markDone() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
