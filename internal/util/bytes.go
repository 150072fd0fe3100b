package util

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"sync"
)

var bufRdrPool = sync.Pool{
	New: func() any { return bufio.NewReaderSize(nil, 4096) },
}

func GetBufReader(r io.Reader) *bufio.Reader {
	br := bufRdrPool.Get().(*bufio.Reader) //nolint:forcetypeassert
	br.Reset(r)
	return br
}

func FreeBufReader(br *bufio.Reader) {
	br.Reset(nil)
	bufRdrPool.Put(br)
}

var bytesBufPool = &sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 1024)) },
}

func GetBytesBuffer() *bytes.Buffer {
	return bytesBufPool.Get().(*bytes.Buffer) //nolint:forcetypeassert
}

func FreeBytesBuffer(b *bytes.Buffer) {
	b.Reset()
	if b.Cap() > math.MaxUint16 {
		return
	}
	bytesBufPool.Put(b)
}
