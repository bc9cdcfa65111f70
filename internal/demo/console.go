// Package demo holds the worker kinds run by the threads command.
package demo

import (
	"fmt"
	"io"
	"sync"
)

// Console serializes line output shared by the initiator and its workers.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Printf writes one formatted line. A trailing newline is appended.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}
