package mmu

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// segment selectors - top bits of the virtual address.
// 2 (binary 10) is left unused, any address carrying it is rejected.
const (
	SelectorCode  = 0
	SelectorHeap  = 1
	SelectorStack = 3
)

// DefaultOffsetBits gives a 14 bit virtual address space with 2 selector bits.
const DefaultOffsetBits = 12

// Segment describes placement of one segment in the physical memory.
type Segment struct {
	Name string `json:"-"`

	// Base : starting physical address
	Base uint32 `json:"base"`

	// Limit : maximum valid effective offset (inclusive)
	Limit uint32 `json:"limit"`

	// GrowsDown : offsets are measured from the top of the segment downwards (stack)
	GrowsDown bool `json:"grows_down"`
}

func (s Segment) String() string {
	dir := "up"
	if s.GrowsDown {
		dir = "down"
	}
	return fmt.Sprintf("%s(base %d, limit %d, grows %s)", s.Name, s.Base, s.Limit, dir)
}

// Config keeps the segment geometry the MMU is built from.
type Config struct {
	OffsetBits uint    `json:"offset_bits"`
	Code       Segment `json:"code"`
	Heap       Segment `json:"heap"`
	Stack      Segment `json:"stack"`
}

// DefaultConfig returns the reference geometry:
// code 32K..34K, heap 34K..37K, stack growing down from 28K.
func DefaultConfig() Config {
	return Config{
		OffsetBits: DefaultOffsetBits,
		Code:       Segment{Name: "Code", Base: 32768, Limit: 2048},
		Heap:       Segment{Name: "Heap", Base: 34816, Limit: 3072},
		Stack:      Segment{Name: "Stack", Base: 28672, Limit: 2048, GrowsDown: true},
	}
}

// Validate rejects geometry which would let a translation wrap around
// the 32 bit physical address space.
func (c Config) Validate() error {
	if c.OffsetBits < 1 || c.OffsetBits > 24 {
		return errors.Errorf("offset bits %d out of range 1..24", c.OffsetBits)
	}
	for _, s := range c.segments() {
		if s.GrowsDown {
			if s.Limit > s.Base {
				return errors.Errorf("segment %s: limit %d exceeds base %d of a downward growing segment",
					s.Name, s.Limit, s.Base)
			}
			continue
		}
		if uint64(s.Base)+uint64(s.Limit) > math.MaxUint32 {
			return errors.Errorf("segment %s: base %d + limit %d overflows the physical address space",
				s.Name, s.Base, s.Limit)
		}
	}
	return nil
}

// segments returns code, heap and stack in this order.
// Names are not part of the json layout, so they get filled in here.
func (c Config) segments() [3]Segment {
	code, heap, stack := c.Code, c.Heap, c.Stack
	code.Name, heap.Name, stack.Name = "Code", "Heap", "Stack"
	return [3]Segment{code, heap, stack}
}
