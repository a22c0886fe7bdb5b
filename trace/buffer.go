package trace

import (
	"sync"

	"github.com/pkg/errors"

	"segmmu/mmu"
)

// Buffer keeps the most recent translations, oldest first.
// Once full, adding a translation drops the oldest one.
type Buffer struct {
	mu      sync.Mutex
	items   []mmu.Translation
	maxSize int
}

// NewBuffer creates a new empty buffer holding up to maxSize translations
func NewBuffer(maxSize int) *Buffer {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Buffer{maxSize: maxSize}
}

// Trace implements mmu.Tracer
func (q *Buffer) Trace(t mmu.Translation) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == q.maxSize {
		q.items = q.items[1:]
	}
	q.items = append(q.items, t)
}

// Dequeue removes and returns the oldest translation
func (q *Buffer) Dequeue() (mmu.Translation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return mmu.Translation{}, errors.New("buffer is empty")
	}
	front := q.items[0]
	q.items = q.items[1:]
	return front, nil
}

// Recent returns a copy of the buffered translations
func (q *Buffer) Recent() []mmu.Translation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mmu.Translation(nil), q.items...)
}

// Len returns number of buffered translations
func (q *Buffer) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsEmpty checks if the buffer is empty.
func (q *Buffer) IsEmpty() bool {
	return q.Len() == 0
}

// Multi fans a translation out to all tracers, nil entries are skipped
func Multi(tracers ...mmu.Tracer) mmu.Tracer {
	var ts []mmu.Tracer
	for _, t := range tracers {
		if t != nil {
			ts = append(ts, t)
		}
	}
	return mmu.TracerFunc(func(tr mmu.Translation) {
		for _, t := range ts {
			t.Trace(tr)
		}
	})
}
