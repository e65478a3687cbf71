package internal

import (
	"fmt"
	"io"
	"sync"
)

// Console displays the conversation above the prompt.
type Console struct {
	lock    sync.Mutex
	out     io.Writer
	refresh func()
}

// NewConsole writes lines to out. The refresh function is called when
// scrolling to redraw the prompt below the last line.
func NewConsole(out io.Writer, refresh func()) *Console {
	return &Console{
		out:     out,
		refresh: refresh,
	}
}

func (c *Console) AppendLine(text string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	// Voluntarily ignoring errors
	fmt.Fprintln(c.out, text)
}

func (c *Console) ScrollToBottom() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.refresh != nil {
		c.refresh()
	}
}
