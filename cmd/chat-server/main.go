package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/config"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/Knoblauchpilze/chat-client/cmd/chat-server/internal"
	"github.com/Knoblauchpilze/chat-client/pkg/chattest"
	"github.com/labstack/echo/v4"
)

func determineConfigName() string {
	if len(os.Args) < 2 {
		return "config-local.yml"
	}

	return os.Args[1]
}

// Runs a local chat server speaking the same protocol as the game
// server, to try the client without network access.
func main() {
	log := logger.New(logger.NewPrettyWriter(os.Stdout))

	conf, err := config.Load(determineConfigName(), internal.DefaultConfig())
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	hub := chattest.NewHub(log)
	hub.Register(e, conf.BasePath)

	notifyCtx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	done := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", conf.Port)
		log.Infof("Server will be listening on port %v", conf.Port)
		done <- e.Start(address)
	}()

	var serveErr error
	select {
	case <-notifyCtx.Done():
		log.Infof("Received shutdown signal, shutting down...")
	case serveErr = <-done:
		log.Infof("Server has shut down")
	}

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		log.Errorf("Serve error: %v", serveErr)
	}

	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("Failed to shutdown server: %v", err)
		os.Exit(1)
	}

	log.Infof("Gracefully shutdown")
}
