package trace

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"segmmu/mmu"
)

// Printer writes a detailed breakdown of every translation.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	pal palette
	err error // first failed write, later writes are skipped
}

// NewPrinter returns Printer writing to w, colored if color is set
func NewPrinter(w io.Writer, color bool) *Printer {
	p := &Printer{w: w, pal: plain}
	if color {
		p.pal = colors
	}
	return p
}

// Trace implements mmu.Tracer
func (p *Printer) Trace(t mmu.Translation) {
	s := render(t, p.pal)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return
	}
	if _, err := io.WriteString(p.w, s); err != nil {
		p.err = err
	}
}

// Err returns the first write error, if any
func (p *Printer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Format renders the translation without colors
func Format(t mmu.Translation) string {
	return render(t, plain)
}

// render writes the translation step by step, stopping at the failing step.
func render(t mmu.Translation, pal palette) string {
	var b strings.Builder
	addrBits := t.OffsetBits + 2

	fmt.Fprintf(&b, "\nDetailed translation for virtual address: %d\n", t.Virtual)
	fmt.Fprintf(&b, "Address bits: %s\n", Binary(t.Virtual, addrBits))
	fmt.Fprintf(&b, "Segment bits: %s\n", paint(Binary(t.Selector, 2), pal.selector))
	fmt.Fprintf(&b, "Raw offset bits: %s\n", paint(Binary(t.RawOffset, t.OffsetBits), pal.offset))
	fmt.Fprintf(&b, "Raw offset decimal: %s\n", Decimal(t.RawOffset))

	if !t.SegmentFound {
		writeResult(&b, t, pal)
		return b.String()
	}

	fmt.Fprintf(&b, "Segment type: %s (%s)\n", t.Segment.Name, Binary(t.Selector, 2))
	fmt.Fprintf(&b, "Selected segment base: %d\n", t.Segment.Base)
	fmt.Fprintf(&b, "Segment limit: %d\n", t.Segment.Limit)

	// effective offset is missing only when the virtual space check failed
	if t.OK() || t.EffectiveOffset != 0 {
		fmt.Fprintf(&b, "Calculated offset: %d\n", t.EffectiveOffset)
	}

	if t.OK() {
		if t.Segment.GrowsDown {
			fmt.Fprintf(&b, "\nStack translation (grows down):\n")
			fmt.Fprintf(&b, "Physical = Base(%d) - Offset(%d)\n", t.Segment.Base, t.EffectiveOffset)
		} else {
			fmt.Fprintf(&b, "\nRegular translation (grows up):\n")
			fmt.Fprintf(&b, "Physical = Base(%d) + Offset(%d)\n", t.Segment.Base, t.EffectiveOffset)
		}
	}
	writeResult(&b, t, pal)
	return b.String()
}

func writeResult(b *strings.Builder, t mmu.Translation, pal palette) {
	if t.Err != nil {
		fmt.Fprintf(b, "%s\n", paint("Translation error: "+t.Err.Error(), pal.fault))
		return
	}
	fmt.Fprintf(b, "Final physical address: %d\n", t.Physical)
	fmt.Fprintf(b, "%s\n", paint("Translation successful!", pal.ok))
}
