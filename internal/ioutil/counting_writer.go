// Package ioutil provides writer helpers for the dump renderers.
package ioutil

import (
	"fmt"
	"io"
	"sync"

	"braces.dev/errtrace"
)

// CountingWriter wraps an io.Writer, sums the bytes written and remembers the first write error.
// Once an error is seen every following write is skipped, so renderers can chain calls
// and check [CountingWriter.Result] once at the end.
type CountingWriter struct {
	w   io.Writer
	num int
	err error
}

func (cw *CountingWriter) track(n int, err error) (int, error) {
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
		return n, cw.err
	}
	return n, nil
}

// Write implements io.Writer.
func (cw *CountingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	return cw.track(cw.w.Write(p))
}

// WriteString implements io.StringWriter.
func (cw *CountingWriter) WriteString(s string) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	return cw.track(io.WriteString(cw.w, s))
}

// Fprint writes args formatted as by fmt.Fprint.
func (cw *CountingWriter) Fprint(args ...any) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	return cw.track(fmt.Fprint(cw.w, args...))
}

// Fprintf writes args formatted as by fmt.Fprintf.
func (cw *CountingWriter) Fprintf(format string, args ...any) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	return cw.track(fmt.Fprintf(cw.w, format, args...))
}

// Call runs a render function against the underlying writer and counts its output.
func (cw *CountingWriter) Call(fn func(io.Writer) (int, error)) *CountingWriter {
	if cw.err == nil {
		cw.track(fn(cw.w)) //nolint:errcheck
	}
	return cw
}

// Result returns the total number of bytes written and the first error encountered.
func (cw *CountingWriter) Result() (num int, err error) {
	return cw.num, cw.err
}

var cntWrtPool = &sync.Pool{
	New: func() any { return &CountingWriter{} },
}

func GetCountingWriter(w io.Writer) *CountingWriter {
	cw := cntWrtPool.Get().(*CountingWriter) //nolint:forcetypeassert
	cw.w = w
	return cw
}

func FreeCountingWriter(cw *CountingWriter) {
	cw.w = nil
	cw.num = 0
	cw.err = nil
	cntWrtPool.Put(cw)
}
