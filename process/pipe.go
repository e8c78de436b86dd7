package process

import (
	"io"
	"os"
	"time"
)

// pipe hands its write end to the child as an *os.File, so exec.Cmd.Wait
// returns when the child exits even if a descendant still holds the pipe.
type pipe struct {
	reader *os.File
	writer *os.File
	copied chan struct{}
}

func newPipe() (*pipe, error) {
	reader, writer, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &pipe{reader: reader, writer: writer, copied: make(chan struct{})}, nil
}

// copyTo releases the parent's write end and copies the read end into dst
// until EOF or until interrupted.
func (p *pipe) copyTo(dst io.Writer) {
	_ = p.writer.Close()
	go func() {
		defer close(p.copied)
		_, _ = io.Copy(dst, p.reader)
	}()
}

// writeFrom releases the parent's read end and writes input into the pipe,
// closing it afterwards so the child reads EOF.
func (p *pipe) writeFrom(input string) {
	_ = p.reader.Close()
	go func() {
		defer close(p.copied)
		_, _ = io.WriteString(p.writer, input)
		_ = p.writer.Close()
	}()
}

func (p *pipe) interrupt() {
	if err := p.reader.SetReadDeadline(time.Now()); err != nil {
		_ = p.reader.Close()
	}
}

func (p *pipe) close() {
	_ = p.reader.Close()
	_ = p.writer.Close()
}

// drain waits at most delay for every output pipe to reach EOF. Pipes still
// open after that are interrupted. It reports whether all output was read.
func drain(delay time.Duration, pipes ...*pipe) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	complete := true
	expired := false
	for _, p := range pipes {
		if !expired {
			select {
			case <-p.copied:
				continue
			case <-timer.C:
				expired = true
			}
		}

		select {
		case <-p.copied:
			continue
		default:
		}

		complete = false
		p.interrupt()
		<-p.copied
	}

	for _, p := range pipes {
		_ = p.reader.Close()
	}

	return complete
}
