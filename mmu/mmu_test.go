package mmu

import (
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestMMU_Translate(t *testing.T) {
	tests := []struct {
		name    string
		virtual uint32
		want    uint32
		wantErr error
	}{
		{"heap example", 4200, 34920, nil},
		{"stack example", 14400, 26688, nil},
		{"code start", 0, 32768, nil},
		{"code limit inclusive", 2048, 34816, nil},
		{"code past limit", 2049, 0, ErrSegmentationViolation},
		{"heap start", 4096, 34816, nil},
		{"heap limit inclusive", 4096 + 3072, 37888, nil},
		{"heap past limit", 4096 + 3073, 0, ErrSegmentationViolation},
		{"segment bits 10", 8192, 0, ErrInvalidSegment},
		{"segment bits 10, max offset", 8192 + 4095, 0, ErrInvalidSegment},
		{"stack at limit", 12288 + 2048, 26624, nil},
		{"stack past limit", 12288 + 2047, 0, ErrSegmentationViolation},
		{"stack raw offset 0", 12288, 0, ErrSegmentationViolation},
		{"stack top", 12288 + 4095, 28671, nil},
		{"beyond 14 bits", 16384, 0, ErrInvalidSegment},
		{"way beyond 14 bits", 1 << 31, 0, ErrInvalidSegment},
	}

	m := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Translate(tt.virtual)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("MMU.Translate(%d) error = %v, want %v", tt.virtual, err, tt.wantErr)
				}
				if got != 0 {
					t.Errorf("MMU.Translate(%d) = %d on failure, want 0", tt.virtual, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("MMU.Translate(%d) unexpected error: %v", tt.virtual, err)
			}
			if got != tt.want {
				t.Errorf("MMU.Translate(%d) = %d, want %d", tt.virtual, got, tt.want)
			}
		})
	}
}

func TestMMU_TranslateAllOffsets(t *testing.T) {
	m := New()
	maxOffset := uint32(1) << m.OffsetBits()

	for _, sel := range []uint32{SelectorCode, SelectorHeap, SelectorStack} {
		seg, _ := m.Segment(sel)
		for raw := uint32(0); raw < maxOffset; raw++ {
			a := sel<<m.OffsetBits() | raw
			got, err := m.Translate(a)

			effective := raw
			if seg.GrowsDown {
				effective = maxOffset - raw
			}
			if effective > seg.Limit {
				if !errors.Is(err, ErrSegmentationViolation) {
					t.Fatalf("%s: Translate(%d) error = %v, want segmentation violation", seg.Name, a, err)
				}
				continue
			}

			want := seg.Base + effective
			if seg.GrowsDown {
				want = seg.Base - effective
			}
			if err != nil || got != want {
				t.Fatalf("%s: Translate(%d) = %d, %v, want %d", seg.Name, a, got, err, want)
			}
		}
	}

	for raw := uint32(0); raw < maxOffset; raw++ {
		if _, err := m.Translate(2<<m.OffsetBits() | raw); !errors.Is(err, ErrInvalidSegment) {
			t.Fatalf("Translate with segment bits 10, offset %d: error = %v, want invalid segment", raw, err)
		}
	}
}

func TestMMU_FaultReasons(t *testing.T) {
	m := New()

	_, err := m.Translate(2049)
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *Fault, got %T", err)
	}
	if f.Reason != ReasonSegmentLimit {
		t.Errorf("Fault.Reason = %q, want %q", f.Reason, ReasonSegmentLimit)
	}
	if f.Address != 2049 || f.Selector != SelectorCode {
		t.Errorf("Fault address/selector = %d/%d, want 2049/0", f.Address, f.Selector)
	}
	if !strings.Contains(err.Error(), "offset exceeds segment limit") {
		t.Errorf("error message %q does not mention the segment limit", err.Error())
	}
	if errors.Cause(err) != ErrSegmentationViolation {
		t.Errorf("errors.Cause() = %v, want %v", errors.Cause(err), ErrSegmentationViolation)
	}

	_, err = m.Translate(8200)
	if !errors.As(err, &f) || f.Reason != ReasonUnknownSelector || f.Selector != 2 {
		t.Errorf("Translate(8200) fault = %+v, want unknown selector 2", f)
	}
}

// raw offsets are masked before they reach effectiveOffset,
// the virtual space check can only be hit directly.
func TestMMU_effectiveOffsetVirtualSpace(t *testing.T) {
	m := New()
	stack, _ := m.Segment(SelectorStack)

	tests := []struct {
		name    string
		raw     uint32
		want    uint32
		wantErr bool
	}{
		{"zero", 0, 4096, false},
		{"max masked", 4095, 1, false},
		{"equal to max", 4096, 0, false},
		{"beyond max", 4097, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, f := m.effectiveOffset(stack, tt.raw)
			if (f != nil) != tt.wantErr {
				t.Fatalf("effectiveOffset(%d) fault = %v, wantErr %v", tt.raw, f, tt.wantErr)
			}
			if f != nil {
				if f.Reason != ReasonVirtualSpace || f.Kind != ErrSegmentationViolation {
					t.Errorf("effectiveOffset(%d) fault = %+v, want virtual space violation", tt.raw, f)
				}
				return
			}
			if got != tt.want {
				t.Errorf("effectiveOffset(%d) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}

	heap, _ := m.Segment(SelectorHeap)
	if got, f := m.effectiveOffset(heap, 5000); f != nil || got != 5000 {
		t.Errorf("effectiveOffset on upward segment = %d, %v, want 5000, nil", got, f)
	}
}

func TestMMU_Idempotent(t *testing.T) {
	m := New()
	for _, a := range []uint32{4200, 14400, 2049, 8192} {
		p1, err1 := m.Translate(a)
		p2, err2 := m.Translate(a)
		if p1 != p2 || (err1 == nil) != (err2 == nil) {
			t.Errorf("Translate(%d) not idempotent: %d/%v vs %d/%v", a, p1, err1, p2, err2)
		}
	}
}

func TestMMU_Concurrent(t *testing.T) {
	var mu sync.Mutex
	count := 0
	m := New().WithTracer(TracerFunc(func(Translation) {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if p, err := m.Translate(4200); err != nil || p != 34920 {
					t.Errorf("Translate(4200) = %d, %v", p, err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if count != 800 {
		t.Errorf("tracer called %d times, want 800", count)
	}
}

func TestMMU_WithTracer(t *testing.T) {
	var got []Translation
	base := New()
	m := base.WithTracer(TracerFunc(func(tr Translation) { got = append(got, tr) }))

	if base.tracer != nil {
		t.Fatal("WithTracer modified the receiver")
	}

	m.Translate(14400)
	m.Translate(8192)
	m.Translate(2049)

	if len(got) != 3 {
		t.Fatalf("tracer called %d times, want 3", len(got))
	}

	stack := got[0]
	if !stack.OK() || stack.Selector != 3 || stack.RawOffset != 2112 ||
		stack.EffectiveOffset != 1984 || stack.Physical != 26688 || stack.Segment.Name != "Stack" {
		t.Errorf("stack translation record = %+v", stack)
	}

	invalid := got[1]
	if invalid.OK() || invalid.SegmentFound || !errors.Is(invalid.Err, ErrInvalidSegment) {
		t.Errorf("invalid segment record = %+v", invalid)
	}

	limit := got[2]
	if limit.OK() || !limit.SegmentFound || limit.EffectiveOffset != 2049 || limit.Physical != 0 {
		t.Errorf("limit violation record = %+v", limit)
	}
}

func TestMMU_Decompose(t *testing.T) {
	m := New()
	tests := []struct {
		virtual  uint32
		selector uint32
		offset   uint32
	}{
		{4200, 1, 104},
		{14400, 3, 2112},
		{0, 0, 0},
		{16383, 3, 4095},
	}
	for _, tt := range tests {
		s, o := m.Decompose(tt.virtual)
		if s != tt.selector || o != tt.offset {
			t.Errorf("Decompose(%d) = %d, %d, want %d, %d", tt.virtual, s, o, tt.selector, tt.offset)
		}
	}
	if m.AddressBits() != 14 {
		t.Errorf("AddressBits() = %d, want 14", m.AddressBits())
	}
}

func TestNewFromConfig(t *testing.T) {
	c := DefaultConfig()
	c.OffsetBits = 8
	c.Stack = Segment{Base: 1000, Limit: 200, GrowsDown: true}
	m, err := NewFromConfig(c)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	// stack: selector 3, raw 100 -> effective 256-100 = 156 -> 1000-156
	if got, err := m.Translate(3<<8 | 100); err != nil || got != 844 {
		t.Errorf("Translate() = %d, %v, want 844", got, err)
	}
	if segs := m.Segments(); segs[2].Name != "Stack" {
		t.Errorf("segment names not set: %v", segs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero offset bits", func(c *Config) { c.OffsetBits = 0 }, true},
		{"too many offset bits", func(c *Config) { c.OffsetBits = 25 }, true},
		{"stack limit above base", func(c *Config) { c.Stack.Base = 100 }, true},
		{"stack limit equal base", func(c *Config) { c.Stack.Base = c.Stack.Limit }, false},
		{"heap overflow", func(c *Config) { c.Heap.Base = 0xffffffff }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
