package internal

import (
	"context"
	"errors"
	"io"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/chzyer/readline"
)

type LineReader interface {
	Readline() (string, error)
}

type Sender interface {
	Send(ctx context.Context, text string) error
}

// RunPrompt sends every line read until the input is exhausted or
// interrupted on an empty line.
func RunPrompt(ctx context.Context, reader LineReader, sender Sender, log logger.Logger) error {
	for {
		line, err := reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := sender.Send(ctx, line); err != nil {
			log.Warnf("Failed to send message: %v", err)
		}
	}
}
