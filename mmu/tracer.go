package mmu

// Translation holds all the intermediate values of a single translation.
// Fields past the failing step stay zero.
type Translation struct {
	Virtual         uint32
	OffsetBits      uint
	Selector        uint32
	RawOffset       uint32
	Segment         Segment
	SegmentFound    bool
	EffectiveOffset uint32
	Physical        uint32
	Err             error
}

// OK reports if the translation produced a physical address
func (t Translation) OK() bool {
	return t.Err == nil
}

// Tracer observes translations. Implementations must not call back into
// the MMU and have to be safe for concurrent use if the MMU is shared.
type Tracer interface {
	Trace(t Translation)
}

// TracerFunc adapts a plain function to the Tracer interface.
type TracerFunc func(t Translation)

func (f TracerFunc) Trace(t Translation) {
	f(t)
}
