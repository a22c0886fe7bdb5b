package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"segmmu/config"
	"segmmu/console"
	"segmmu/logger"
	"segmmu/mmu"
	"segmmu/trace"
)

// number of translations kept for the gui history view
const historySize = 16

// command line flags
type options struct {
	config string
	log    string
	gui    bool
	trace  bool
	color  string
}

func registerFlags(fs *flag.FlagSet) *options {
	o := new(options)
	fs.StringVar(&o.config, "config", "", "config file (default: searched in the config folders)")
	fs.StringVar(&o.log, "log", "", "log file (default: stdout)")
	fs.BoolVar(&o.gui, "gui", false, "show translations in a terminal ui")
	fs.BoolVar(&o.trace, "trace", true, "print detailed breakdown of every translation")
	fs.StringVar(&o.color, "color", "", "colored trace: auto, always or never")
	return o
}

// applyFlags overrides config values with the flags set explicitly on fs.
// Flags left at their default keep the config file value.
func applyFlags(v config.Values, fs *flag.FlagSet, o *options) config.Values {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log":
			v.LogFile = o.log
		case "trace":
			v.Trace = o.trace
		case "color":
			v.Color = o.color
		}
	})
	return v
}

func main() {
	o := registerFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [address...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	v, used, err := config.Resolve(o.config)
	if err != nil {
		log.Fatal(err)
	}
	v = applyFlags(v, flag.CommandLine, o)
	if err := v.Validate(); err != nil {
		log.Fatal(err)
	}

	if flag.NArg() > 0 {
		v.Addresses, err = parseAddresses(flag.Args())
		if err != nil {
			log.Fatal(err)
		}
	}

	var l *log.Logger
	switch {
	case v.LogFile != "":
		l, err = logger.New(v.LogFile)
	case o.gui:
		l = logger.Discard()
	default:
		l, err = logger.New("")
	}
	if err != nil {
		log.Fatal(err)
	}
	if used != "" {
		l.Printf("using config file %s", used)
	}

	m, err := mmu.NewFromConfig(v.MMU)
	if err != nil {
		l.Fatal(err)
	}

	if o.gui {
		if err := runGui(m, v, l); err != nil {
			l.Fatal(err)
		}
		return
	}

	cons := console.NewSimple(os.Stdout)
	useColor := trace.ColorEnabled(v.Color, os.Stdout)
	if failed := run(m, v, cons, useColor, nil, l); failed > 0 {
		os.Exit(1)
	}
}

// parseAddresses accepts decimal, 0x, 0o and 0b prefixed numbers
func parseAddresses(args []string) ([]uint32, error) {
	addrs := make([]uint32, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseUint(a, 0, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "bad virtual address %q", a)
		}
		addrs = append(addrs, uint32(n))
	}
	return addrs, nil
}

// banner describes the virtual address layout of m
func banner(m *mmu.MMU) string {
	bits := m.AddressBits()
	return fmt.Sprintf("SEGMENTATION TRANSLATION EXAMPLES\n"+
		"--------------------------------\n"+
		"Virtual address space: %d-bit (%d bytes)\n"+
		"Segment bits: 2 (top bits)\n"+
		"Offset bits: %d (bottom bits)\n",
		bits, uint64(1)<<bits, m.OffsetBits())
}

// run translates all configured addresses and reports them on cons.
// extra receives every translation as well. Returns number of failed translations.
// Console write failures are logged, they don't stop the run.
func run(m *mmu.MMU, v config.Values, cons console.Console, color bool, extra mmu.Tracer, l *log.Logger) int {
	var printer *trace.Printer
	var tracer mmu.Tracer
	if v.Trace {
		printer = trace.NewPrinter(console.Writer(cons), color)
		tracer = printer
	}
	tm := m.WithTracer(trace.Multi(tracer, extra))

	write := func(msg string) {
		if err := cons.WriteConsole(msg); err != nil {
			l.Printf("console write failed: %v", err)
		}
	}

	write(banner(m))
	for _, s := range m.Segments() {
		l.Printf("segment %v", s)
	}

	failed := 0
	for _, a := range v.Addresses {
		p, err := tm.Translate(a)
		if err != nil {
			failed++
			l.Printf("translation of %d failed: %v", a, err)
			if !v.Trace {
				write(fmt.Sprintf("Translation error: %v\n", err))
			}
			continue
		}
		l.Printf("translated %d -> %d", a, p)
		if !v.Trace {
			write(fmt.Sprintf("%d -> Final physical address: %d\n", a, p))
		}
	}

	if printer != nil {
		if err := printer.Err(); err != nil {
			l.Printf("trace output failed: %v", err)
		}
	}
	return failed
}
