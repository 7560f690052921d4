package scan

import (
	"bytes"
	"strings"
)

// FrameDecoder reassembles newline-terminated lines from a byte stream
// delivered in chunks of arbitrary size.
//
// Only the unterminated tail of the most recent chunk is retained between
// calls. Lines are decoded from bytes only once complete, so a multi-byte
// character split across chunks is never mangled.
type FrameDecoder struct {
	tail []byte
}

// NewFrameDecoder creates an empty decoder
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

// Feed appends a chunk and returns every line completed by it, in arrival
// order and without the terminator. A trailing '\r' is stripped so CRLF
// streams decode the same as LF streams.
func (d *FrameDecoder) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}

	// Fast path: no terminator, just grow the tail
	if bytes.IndexByte(chunk, '\n') < 0 {
		d.tail = append(d.tail, chunk...)
		return nil
	}

	var lines []string
	data := chunk
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		var line string
		if len(d.tail) > 0 {
			d.tail = append(d.tail, data[:i]...)
			line = string(d.tail)
			d.tail = d.tail[:0]
		} else {
			line = string(data[:i])
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		data = data[i+1:]
	}

	// Copy the remainder; the caller may reuse chunk's backing array.
	d.tail = append(d.tail, data...)
	return lines
}

// Pending returns the unterminated fragment currently held
func (d *FrameDecoder) Pending() string {
	return string(d.tail)
}

// Reset discards any unterminated fragment
func (d *FrameDecoder) Reset() {
	d.tail = d.tail[:0]
}
