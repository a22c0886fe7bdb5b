package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jroimartin/gocui"
)

// Gui writes into a gocui view.
// gocui allows updating views only through Update, and separate Update calls
// run in no particular order. Messages are therefore collected in a queue and
// a single Update at a time flushes everything collected so far.
type Gui struct {
	g    *gocui.Gui
	view string
	q    pending
}

// NewGui returns console writing into the view named view
func NewGui(g *gocui.Gui, view string) *Gui {
	return &Gui{g: g, view: view}
}

// WriteConsole queues msg for the view
func (c *Gui) WriteConsole(msg string) error {
	if c.q.push(msg) {
		c.g.Update(c.flush)
	}
	return nil
}

func (c *Gui) flush(g *gocui.Gui) error {
	s := c.q.drain()
	v, err := g.View(c.view)
	if err != nil {
		return err
	}
	fmt.Fprint(v, s)
	return nil
}

// pending keeps messages waiting for the gui main loop, oldest first.
type pending struct {
	mu    sync.Mutex
	items []string
}

// push appends msg. Returns true if the queue was empty,
// i.e. no flush is scheduled yet and the caller has to schedule one.
func (p *pending) push(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, msg)
	return len(p.items) == 1
}

// drain empties the queue and returns its content joined in order
func (p *pending) drain() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := strings.Join(p.items, "")
	p.items = nil
	return s
}
