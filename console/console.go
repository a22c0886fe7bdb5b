package console

import "io"

/*
Output sinks for the demonstration driver.

Simple writes to any io.Writer (stdout normally), Gui writes into a gocui view.
Translation traces reach a console through Writer, so a trace.Printer can
be pointed at either of them.
*/

// Console displays driver messages
type Console interface {
	WriteConsole(msg string) error
}

type writer struct {
	c Console
}

func (w writer) Write(p []byte) (int, error) {
	if err := w.c.WriteConsole(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Writer adapts a Console to io.Writer
func Writer(c Console) io.Writer {
	return writer{c}
}
