package logger

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
)

// New returns logger writing to stdout, or appending to the file at path
func New(path string) (*log.Logger, error) {
	if len(path) == 0 {
		return log.New(os.Stdout, "SEGMMU ", log.Ldate|log.Ltime|log.Lshortfile), nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open log file %s", path)
	}
	l := log.New(f, "SEGMMU ", log.Ldate|log.Ltime|log.Lshortfile)
	l.Printf("Initializing %s", path)
	return l, nil
}

// Discard returns logger dropping everything, used by the gui mode
// where stdout belongs to the terminal ui.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
