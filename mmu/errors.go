package mmu

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSegment        = errors.New("invalid segment")
	ErrSegmentationViolation = errors.New("segmentation violation")
)

// fault reasons
const (
	ReasonUnknownSelector = "selector does not name a segment"
	ReasonVirtualSpace    = "raw offset exceeds virtual space"
	ReasonSegmentLimit    = "offset exceeds segment limit"
)

// Fault is returned for every failed translation.
// Kind is one of ErrInvalidSegment or ErrSegmentationViolation.
type Fault struct {
	Kind     error
	Address  uint32
	Selector uint32
	Reason   string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v - %s (virtual address %d, segment bits %b)",
		f.Kind, f.Reason, f.Address, f.Selector)
}

func (f *Fault) Unwrap() error {
	return f.Kind
}

// Cause makes the fault usable with errors.Cause
func (f *Fault) Cause() error {
	return f.Kind
}

func newFault(kind error, addr, selector uint32, reason string) *Fault {
	return &Fault{
		Kind:     kind,
		Address:  addr,
		Selector: selector,
		Reason:   reason,
	}
}
