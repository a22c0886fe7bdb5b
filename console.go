package main

import (
	"fmt"
	"log"

	"github.com/jroimartin/gocui"

	"segmmu/config"
	"segmmu/console"
	"segmmu/mmu"
	"segmmu/trace"
)

/*
Terminal ui mode:
	- upper view: translation breakdown, autoscrolled
	- lower view: short history of the most recent translations
	- ctrl-c or q quits
*/

func runGui(m *mmu.MMU, v config.Values, l *log.Logger) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()

	g.SetManagerFunc(layout)
	for _, key := range []interface{}{gocui.KeyCtrlC, 'q'} {
		if err := g.SetKeybinding("", key, gocui.ModNone, quit); err != nil {
			return err
		}
	}

	history := trace.NewBuffer(historySize)
	cons := console.NewGui(g, "translations")

	// translations are queued through g.Update, they show up once the main loop runs
	go func() {
		failed := run(m, v, cons, false, history, l)
		g.Update(func(g *gocui.Gui) error {
			return showHistory(g, history, len(v.Addresses), failed)
		})
	}()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func showHistory(g *gocui.Gui, history *trace.Buffer, total, failed int) error {
	v, err := g.View("history")
	if err != nil {
		return err
	}
	v.Clear()
	for _, t := range history.Recent() {
		if t.OK() {
			fmt.Fprintf(v, "%6d -> %6d  %s\n", t.Virtual, t.Physical, t.Segment.Name)
		} else {
			fmt.Fprintf(v, "%6d -> fault   %v\n", t.Virtual, t.Err)
		}
	}
	fmt.Fprintf(v, "%d translated, %d failed. Press q to quit.\n", total-failed, failed)
	return nil
}

// gocui layout
func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if v, err := g.SetView("translations", 0, 0, maxX-1, maxY-12); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Translations"
		v.Autoscroll = true
		v.Wrap = true
	}

	if v, err := g.SetView("history", 0, maxY-11, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "History"
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
