package trace

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mgutz/ansi"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Binary formats v as zero padded binary number of the given width
func Binary[I constraints.Unsigned](v I, width uint) string {
	return fmt.Sprintf("%0*b", int(width), uint64(v))
}

// Decimal formats v as decimal number
func Decimal[I constraints.Integer](v I) string {
	if v < 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

// color modes for the -color flag
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled decides if output written to w gets ansi colors.
// In auto mode only terminals are colored.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type palette struct {
	selector, offset, fault, ok string
}

var (
	colors = palette{
		selector: ansi.ColorCode("cyan+b"),
		offset:   ansi.ColorCode("yellow"),
		fault:    ansi.ColorCode("red+b"),
		ok:       ansi.ColorCode("green"),
	}
	plain = palette{}
)

func paint(s, color string) string {
	if color == "" {
		return s
	}
	return color + s + ansi.Reset
}
