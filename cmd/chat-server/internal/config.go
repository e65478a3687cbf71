package internal

import "time"

type Configuration struct {
	BasePath        string
	Port            uint16
	ShutdownTimeout time.Duration
}

func DefaultConfig() Configuration {
	return Configuration{
		BasePath:        "/",
		Port:            uint16(4010),
		ShutdownTimeout: 3 * time.Second,
	}
}
