package process

import (
	"bytes"
	"io"
	"sync"
)

// Indent is prepended to every line of command output forwarded to the console.
const Indent = "    "

// LineWriter forwards complete lines to the underlying writer, each prefixed.
// Write errors of the underlying writer are dropped: the console is a best
// effort sink and must not break the command it is attached to.
type LineWriter struct {
	mu      sync.Mutex
	out     io.Writer
	prefix  []byte
	pending []byte
}

// NewLineWriter ...
func NewLineWriter(out io.Writer, prefix string) *LineWriter {
	return &LineWriter{out: out, prefix: []byte(prefix)}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.writeLine(w.pending[:i+1])
		w.pending = w.pending[i+1:]
	}
	if len(w.pending) == 0 {
		w.pending = nil
	}

	return len(p), nil
}

// Flush writes out a trailing line that was not terminated by a newline.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return
	}
	w.writeLine(append(w.pending, '\n'))
	w.pending = nil
}

func (w *LineWriter) writeLine(line []byte) {
	if w.out == nil {
		return
	}
	buf := make([]byte, 0, len(w.prefix)+len(line))
	buf = append(buf, w.prefix...)
	buf = append(buf, line...)
	_, _ = w.out.Write(buf)
}

// CreateBufferedWriter ...
func CreateBufferedWriter(buff *bytes.Buffer, writers ...io.Writer) io.Writer {
	if len(writers) > 0 {
		allWriters := append([]io.Writer{buff}, writers...)
		return io.MultiWriter(allWriters...)
	}
	return io.Writer(buff)
}
