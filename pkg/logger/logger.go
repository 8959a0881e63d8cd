package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// New returns a stdlib-backed logger with component prefix. The HTTP access
// log uses it because chi's request logger expects a Print-style logger.
func New(component string) *log.Logger {
	return NewWithWriter(os.Stdout, component)
}

// NewWithWriter is New with an explicit destination; a nil writer discards.
func NewWithWriter(w io.Writer, component string) *log.Logger {
	if w == nil {
		w = io.Discard
	}
	return log.New(w, fmt.Sprintf("[%s] ", component), log.LstdFlags|log.Lmsgprefix)
}
