package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/Knoblauchpilze/chat-client/pkg/connection"
	"github.com/Knoblauchpilze/chat-client/pkg/dispatcher"
	"github.com/Knoblauchpilze/chat-client/pkg/messages"
	"github.com/google/uuid"
)

type Props struct {
	Queue     dispatcher.Queue
	Sink      Sink
	Transport connection.Factory

	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Session is the entry point of the chat: it connects to the server,
// routes what it receives to the sink through the dispatcher and sends
// the messages typed by the user. A session connects at most once.
type Session interface {
	// Connect starts connecting in the background. The context only
	// gates the start of the call: cancelling it afterwards does not
	// interrupt the connection, use Close for that.
	Connect(ctx context.Context, endpoint string) error
	// Send is a no-op when the text is empty or the session is not
	// connected.
	Send(ctx context.Context, text string) error
	Close() error

	// SelfId is empty until the server assigned an identity.
	SelfId() string
	State() connection.State

	// Done is closed once the session is closed and all notifications
	// were enqueued.
	Done() <-chan struct{}
}

type sessionImpl struct {
	log          logger.Logger
	queue        dispatcher.Queue
	sink         Sink
	factory      connection.Factory
	dialTimeout  time.Duration
	writeTimeout time.Duration

	selfId atomic.Pointer[string]

	lock     sync.Mutex
	machine  connection.Machine
	closed   bool
	done     chan struct{}
	doneOnce sync.Once
}

func New(props Props, log logger.Logger) Session {
	factory := props.Transport
	if factory == nil {
		factory = connection.NewWebsocketTransport
	}

	return &sessionImpl{
		log:          log,
		queue:        props.Queue,
		sink:         props.Sink,
		factory:      factory,
		dialTimeout:  props.DialTimeout,
		writeTimeout: props.WriteTimeout,
		done:         make(chan struct{}),
	}
}

func (s *sessionImpl) Connect(ctx context.Context, endpoint string) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return errors.NewCode(ErrSessionClosed)
	}
	if s.machine != nil {
		return errors.NewCode(ErrSessionAlreadyConnected)
	}

	opts := connection.Options{
		Id:           uuid.New(),
		DialTimeout:  s.dialTimeout,
		WriteTimeout: s.writeTimeout,
		Callbacks: connection.Callbacks{
			OpenCallback:    s.onOpen,
			MessageCallback: s.onMessage,
			ErrorCallback:   s.onError,
			CloseCallback:   s.onClose,
		},
	}
	s.machine = connection.New(s.factory(), opts, s.log)

	s.present(connectingNotice)

	if err := s.machine.Connect(endpoint); err != nil {
		return err
	}

	go s.waitForMachine(s.machine)

	return nil
}

func (s *sessionImpl) Send(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	m := s.currentMachine()
	if m == nil || m.State() != connection.OPEN {
		return nil
	}

	encoded, err := messages.Encode(messages.NewPublicMessage(text))
	if err != nil {
		return err
	}

	err = m.Send(ctx, encoded)
	if errors.IsErrorWithCode(err, connection.ErrNotOpen) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Debugf("Enviado al servidor: %s", encoded)

	s.sink.AppendLine(messages.LocalEchoLine(text))
	s.sink.ScrollToBottom()

	return nil
}

func (s *sessionImpl) Close() error {
	s.lock.Lock()
	m := s.machine
	alreadyClosed := s.closed
	s.closed = true
	s.lock.Unlock()

	if m == nil {
		if !alreadyClosed {
			s.markDone()
		}
		return nil
	}

	return m.Close()
}

func (s *sessionImpl) SelfId() string {
	id := s.selfId.Load()
	if id == nil {
		return ""
	}
	return *id
}

func (s *sessionImpl) State() connection.State {
	if m := s.currentMachine(); m != nil {
		return m.State()
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return connection.CLOSED
	}
	return connection.IDLE
}

func (s *sessionImpl) Done() <-chan struct{} {
	return s.done
}

func (s *sessionImpl) currentMachine() connection.Machine {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.machine
}

func (s *sessionImpl) waitForMachine(m connection.Machine) {
	<-m.Done()
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	s.markDone()
}

func (s *sessionImpl) markDone() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *sessionImpl) onOpen(id uuid.UUID) {
	s.present(connectedNotice)
}

func (s *sessionImpl) onMessage(id uuid.UUID, data string) {
	s.log.Debugf("Mensaje del servidor: %s", data)

	action, event, err := messages.RouteRaw(data, s.SelfId())
	if err != nil {
		s.log.Debugf("Dropping frame received on %v: %v", id, err)
		return
	}

	if action.AssignedId != "" {
		s.assignIdentity(action.AssignedId)
	}

	if action.Ignored() {
		s.log.Debugf("Ignoring event %s from %q", event.Tag, event.OriginId)
		return
	}

	s.present(action.Line())
}

func (s *sessionImpl) onError(id uuid.UUID, err error) {
	s.present(connectionErrorNotice(err))
}

func (s *sessionImpl) onClose(id uuid.UUID) {
	s.present(disconnectedNotice)
}

// assignIdentity only keeps the first identity received: later ones are
// reported but do not change what is filtered.
func (s *sessionImpl) assignIdentity(id string) {
	if s.selfId.CompareAndSwap(nil, &id) {
		s.log.Infof("Server assigned identity %q", id)
		return
	}

	if current := s.SelfId(); current != id {
		s.log.Warnf("Ignoring identity %q, already identified as %q", id, current)
	}
}

func (s *sessionImpl) present(line string) {
	s.queue.Enqueue(func() {
		s.sink.AppendLine(line)
		s.sink.ScrollToBottom()
	})
}
