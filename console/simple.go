package console

import (
	"io"
	"strings"
	"sync"
)

// Simple console type definition
type Simple struct {
	mu          sync.Mutex
	out         io.Writer
	currentLine int // number of lines written so far
}

// NewSimple returns a console writing to out
func NewSimple(out io.Writer) *Simple {
	return &Simple{out: out}
}

// WriteConsole writes msg keeping its line breaks. A blank line is kept too,
// the translation breakdown uses them as separators.
func (c *Simple) WriteConsole(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := io.WriteString(c.out, msg); err != nil {
		return err
	}
	c.currentLine += strings.Count(msg, "\n")
	return nil
}

// Lines returns number of lines written
func (c *Simple) Lines() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLine
}
