package pilot_http

import (
	"bytes"
	"errors"
	"io"
	"strconv"
)

// DataBufSize is the per-connection capacity for one request and one
// response body.
const DataBufSize = 2048

// RequestBuffer accumulates one request from a connection. Each slot owns
// its buffer, so no request ever observes bytes from another.
type RequestBuffer struct {
	buffer []byte
	chunk  []byte
}

func NewRequestBuffer(capacity int) *RequestBuffer {
	if capacity <= 0 {
		capacity = DataBufSize
	}
	return &RequestBuffer{
		buffer: make([]byte, 0, capacity),
		chunk:  make([]byte, 512),
	}
}

func (buf *RequestBuffer) Reset() {
	buf.buffer = buf.buffer[:0]
}

func (buf *RequestBuffer) Bytes() []byte {
	return buf.buffer
}

func (buf *RequestBuffer) Len() int {
	return len(buf.buffer)
}

func (buf *RequestBuffer) full() bool {
	return len(buf.buffer) == cap(buf.buffer)
}

// BufferIn performs a single read and appends what arrived, never growing
// past capacity.
func (buf *RequestBuffer) BufferIn(r io.Reader) (int, error) {
	room := cap(buf.buffer) - len(buf.buffer)
	if room == 0 {
		return 0, nil
	}
	next := buf.chunk
	if room < len(next) {
		next = next[:room]
	}
	n, err := r.Read(next)
	buf.buffer = append(buf.buffer, next[:n]...)
	return n, err
}

// Fill reads until a whole request is buffered: the header block plus
// Content-Length bytes of body. A read error after some bytes have arrived
// ends the request with what is there. io.EOF with nothing buffered means
// the peer closed the connection.
func (buf *RequestBuffer) Fill(r io.Reader) error {
	for !buf.Complete() {
		n, err := buf.BufferIn(r)
		if err != nil {
			if len(buf.buffer) > 0 {
				return nil
			}
			return err
		}
		if n == 0 && buf.full() {
			return nil
		}
	}
	return nil
}

// Complete reports whether the buffer holds an entire request, or is full.
func (buf *RequestBuffer) Complete() bool {
	if buf.full() {
		return true
	}
	end := headerTerminator(buf.buffer)
	if end < 0 {
		return false
	}
	want := contentLength(buf.buffer[:end])
	return len(buf.buffer)-end >= want
}

var contentLengthKey = []byte("content-length:")

// contentLength scans a header block for Content-Length, ignoring case.
func contentLength(header []byte) int {
	for _, line := range bytes.Split(header, []byte("\n")) {
		if len(line) < len(contentLengthKey) {
			continue
		}
		if !bytes.EqualFold(line[:len(contentLengthKey)], contentLengthKey) {
			continue
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(line[len(contentLengthKey):])))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// IsPeerClosed reports whether err from Fill means the client went away
// before sending anything.
func IsPeerClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe)
}
