package connection

import "github.com/google/uuid"

type OnOpen func(id uuid.UUID)
type OnMessage func(id uuid.UUID, data string)

// The connection is closing when this callback is triggered: a call to
// OnClose always follows.
type OnError func(id uuid.UUID, err error)
type OnClose func(id uuid.UUID)

type Callbacks struct {
	OpenCallback    OnOpen
	MessageCallback OnMessage
	ErrorCallback   OnError
	CloseCallback   OnClose
}

func (c Callbacks) OnOpen(id uuid.UUID) {
	if c.OpenCallback != nil {
		c.OpenCallback(id)
	}
}

func (c Callbacks) OnMessage(id uuid.UUID, data string) {
	if c.MessageCallback != nil {
		c.MessageCallback(id, data)
	}
}

func (c Callbacks) OnError(id uuid.UUID, err error) {
	if c.ErrorCallback != nil {
		c.ErrorCallback(id, err)
	}
}

func (c Callbacks) OnClose(id uuid.UUID) {
	if c.CloseCallback != nil {
		c.CloseCallback(id)
	}
}
