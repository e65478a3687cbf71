package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/config"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/Knoblauchpilze/chat-client/cmd/chat-client/internal"
	"github.com/Knoblauchpilze/chat-client/pkg/connection"
	"github.com/Knoblauchpilze/chat-client/pkg/dispatcher"
	"github.com/Knoblauchpilze/chat-client/pkg/session"
	"github.com/chzyer/readline"
)

func determineConfigName() string {
	if len(os.Args) < 2 {
		return "config-prod.yml"
	}

	return os.Args[1]
}

func main() {
	log := logger.New(logger.NewPrettyWriter(os.Stdout))

	conf, err := config.Load(determineConfigName(), internal.DefaultConfig())
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	factory, err := connection.NewFactory(conf.Transport)
	if err != nil {
		log.Errorf("Unsupported transport %q: %v", conf.Transport, err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          conf.Prompt,
		HistoryLimit:    conf.HistoryLimit,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Errorf("Failed to initialize terminal: %v", err)
		os.Exit(1)
	}
	defer rl.Close()

	// Logs go through the terminal so that they do not garble the prompt.
	log = logger.New(logger.NewPrettyWriter(rl.Stderr()))

	queue := dispatcher.NewQueue(log)
	loop := dispatcher.NewLoop(queue, conf.TickInterval, log)
	loop.Start()

	props := session.Props{
		Queue:        queue,
		Sink:         internal.NewConsole(rl.Stdout(), rl.Refresh),
		Transport:    factory,
		DialTimeout:  conf.DialTimeout,
		WriteTimeout: conf.WriteTimeout,
	}
	s := session.New(props, log)

	notifyCtx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := s.Connect(notifyCtx, conf.Endpoint); err != nil {
		log.Errorf("Failed to connect to %s: %v", conf.Endpoint, err)
		loop.Stop()
		os.Exit(1)
	}

	// Interrupts the prompt when the process is asked to stop or when
	// the server went away.
	go func() {
		select {
		case <-notifyCtx.Done():
			log.Infof("Received shutdown signal, shutting down...")
		case <-s.Done():
		}
		rl.Close()
	}()

	if err := internal.RunPrompt(notifyCtx, rl, s, log); err != nil {
		log.Warnf("Prompt stopped: %v", err)
	}

	if err := s.Close(); err != nil {
		log.Warnf("Failed to close session: %v", err)
	}

	select {
	case <-s.Done():
	case <-time.After(conf.ShutdownTimeout):
		log.Warnf("Session did not close within %v", conf.ShutdownTimeout)
	}

	// Displays the remaining notifications.
	loop.Stop()

	log.Infof("Gracefully shutdown")
}
