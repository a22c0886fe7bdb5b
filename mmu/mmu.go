package mmu

/*
Segmentation MMU.

Virtual address layout for the default geometry (14 bits):

  13 12 | 11 10 9 8 7 6 5 4 3 2 1 0
  -seg- | ---------- offset ---------

segment bits: 00 = code, 01 = heap, 11 = stack, 10 = unused
*/

// MMU translates virtual addresses to physical ones using three fixed segments.
// It is not modified after construction, a single instance can be shared.
type MMU struct {
	code, heap, stack Segment
	offsetBits        uint
	tracer            Tracer
}

// New returns MMU with the default segment geometry
func New() *MMU {
	m, err := NewFromConfig(DefaultConfig())
	if err != nil {
		// default geometry is always valid
		panic(err)
	}
	return m
}

// NewFromConfig validates the geometry and returns MMU built from it
func NewFromConfig(c Config) (*MMU, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	segs := c.segments()
	return &MMU{
		code:       segs[0],
		heap:       segs[1],
		stack:      segs[2],
		offsetBits: c.OffsetBits,
	}, nil
}

// WithTracer returns a copy of the MMU reporting every translation to t.
// Receiver is left untouched.
func (m *MMU) WithTracer(t Tracer) *MMU {
	mm := *m
	mm.tracer = t
	return &mm
}

// OffsetBits returns width of the offset field
func (m *MMU) OffsetBits() uint {
	return m.offsetBits
}

// AddressBits returns width of the virtual address: 2 selector bits + offset
func (m *MMU) AddressBits() uint {
	return m.offsetBits + 2
}

// Segments returns code, heap and stack descriptors
func (m *MMU) Segments() []Segment {
	return []Segment{m.code, m.heap, m.stack}
}

// Segment returns descriptor selected by segment bits s
func (m *MMU) Segment(s uint32) (Segment, bool) {
	switch s {
	case SelectorCode:
		return m.code, true
	case SelectorHeap:
		return m.heap, true
	case SelectorStack:
		return m.stack, true
	}
	return Segment{}, false
}

// Decompose splits the virtual address into segment selector and raw offset
func (m *MMU) Decompose(a uint32) (selector, rawOffset uint32) {
	offsetMask := uint32(1)<<m.offsetBits - 1
	return a >> m.offsetBits, a & offsetMask
}

// Translate maps virtual address a to the physical one.
// Failed translations return *Fault, never a partial address.
func (m *MMU) Translate(a uint32) (uint32, error) {
	t := m.translate(a)
	if m.tracer != nil {
		m.tracer.Trace(t)
	}
	if t.Err != nil {
		return 0, t.Err
	}
	return t.Physical, nil
}

func (m *MMU) translate(a uint32) (t Translation) {
	t.Virtual = a
	t.OffsetBits = m.offsetBits
	t.Selector, t.RawOffset = m.Decompose(a)

	seg, ok := m.Segment(t.Selector)
	if !ok {
		t.Err = newFault(ErrInvalidSegment, a, t.Selector, ReasonUnknownSelector)
		return t
	}
	t.Segment, t.SegmentFound = seg, true

	offset, err := m.effectiveOffset(seg, t.RawOffset)
	if err != nil {
		err.Address, err.Selector = a, t.Selector
		t.Err = err
		return t
	}
	t.EffectiveOffset = offset

	// limit is inclusive
	if offset > seg.Limit {
		t.Err = newFault(ErrSegmentationViolation, a, t.Selector, ReasonSegmentLimit)
		return t
	}

	if seg.GrowsDown {
		t.Physical = seg.Base - offset
	} else {
		t.Physical = seg.Base + offset
	}
	return t
}

// effectiveOffset applies the growth direction to the raw offset.
// Downward growing segments count from the top of the offset space,
// so raw offset 0 is 1<<offsetBits below the base.
func (m *MMU) effectiveOffset(s Segment, raw uint32) (uint32, *Fault) {
	if !s.GrowsDown {
		return raw, nil
	}
	maxOffset := uint32(1) << m.offsetBits

	// raw offset is masked to maxOffset-1 by Decompose, so this never fires.
	// Kept as an explicit invariant check.
	if raw > maxOffset {
		return 0, newFault(ErrSegmentationViolation, 0, 0, ReasonVirtualSpace)
	}
	return maxOffset - raw, nil
}
