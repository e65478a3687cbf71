package internal

import (
	"time"

	"github.com/Knoblauchpilze/chat-client/pkg/connection"
)

type Configuration struct {
	Endpoint     string
	Transport    string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	// Period at which notifications are displayed.
	TickInterval    time.Duration
	ShutdownTimeout time.Duration
	Prompt          string
	HistoryLimit    int
}

func DefaultConfig() Configuration {
	return Configuration{
		Endpoint:        "ws://ucn-game-server.martux.cl:4010",
		Transport:       connection.CoderTransport,
		DialTimeout:     5 * time.Second,
		WriteTimeout:    2 * time.Second,
		TickInterval:    16 * time.Millisecond,
		ShutdownTimeout: 3 * time.Second,
		Prompt:          "> ",
		HistoryLimit:    100,
	}
}
