package chattest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

const reasonableWaitTime = 2 * time.Second
const reasonablePollInterval = 5 * time.Millisecond

func newTestServer(t *testing.T) *Server {
	s := NewServer(logger.New(os.Stdout))
	t.Cleanup(s.Close)
	return s
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

// newTestClient connects to the server and consumes the welcome event
// to learn the identity it was assigned.
func newTestClient(t *testing.T, s *Server) *testClient {
	ctx, cancel := context.WithTimeout(context.Background(), reasonableWaitTime)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, s.Url(), nil)
	assert.Nil(t, err, "Actual err: %v", err)

	c := &testClient{t: t, conn: conn}
	t.Cleanup(func() {
		conn.CloseNow()
	})

	welcome := c.next()
	assert.Equal(t, "connected-to-server", welcome.Get("event").String())
	c.id = welcome.Get("data.id").String()

	return c
}

func (c *testClient) next() gjson.Result {
	ctx, cancel := context.WithTimeout(context.Background(), reasonableWaitTime)
	defer cancel()

	_, data, err := c.conn.Read(ctx)
	assert.Nil(c.t, err, "Actual err: %v", err)
	assert.True(c.t, gjson.ValidBytes(data), "Invalid frame: %s", string(data))

	return gjson.ParseBytes(data)
}

// nextWithTag skips frames until one with the tag is received.
func (c *testClient) nextWithTag(tag string) gjson.Result {
	for {
		frame := c.next()
		if frame.Get("event").String() == tag || !frame.Exists() {
			return frame
		}
	}
}

// nextFrom skips frames until one with the tag emitted by the origin is
// received.
func (c *testClient) nextFrom(tag string, origin string) gjson.Result {
	for {
		frame := c.nextWithTag(tag)
		if frame.Get("data.id").String() == origin || !frame.Exists() {
			return frame
		}
	}
}

func (c *testClient) send(raw string) {
	err := c.conn.Write(context.Background(), websocket.MessageText, []byte(raw))
	assert.Nil(c.t, err, "Actual err: %v", err)
}

func waitForClients(t *testing.T, s *Server, count int) {
	condition := func() bool {
		return len(s.Clients()) == count
	}
	assert.Eventually(t, condition, reasonableWaitTime, reasonablePollInterval, "Actual clients: %v", s.Clients())
}
