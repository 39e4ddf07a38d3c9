package bufio

import (
	"bytes"

	conduitmath "github.com/christopherkarani/Conduit/pkg/math"
)

// minLineBufferCapacity is the smallest capacity a LineBuffer will ever
// allocate, regardless of the capacity requested at construction.
const minLineBufferCapacity = 256

// LineBuffer is a growable byte region supporting amortized O(1) append and
// line extraction from a stream of bytes that may arrive in arbitrary
// chunks. Unlike bufio.Scanner, it does not own an io.Reader: callers feed
// it bytes via Append and pull delimited lines back out via NextLine, which
// lets it sit in front of sources that don't fit the io.Reader shape (or in
// front of one that does, fed a chunk at a time).
//
// A LineBuffer is not safe for concurrent use.
type LineBuffer struct {
	buf      []byte
	readPos  int
	writePos int
}

// NewLineBuffer returns a LineBuffer with at least the given initial
// capacity. Capacities below 256 bytes are rounded up to 256.
func NewLineBuffer(initialCapacity int) *LineBuffer {
	if initialCapacity < minLineBufferCapacity {
		initialCapacity = minLineBufferCapacity
	}
	return &LineBuffer{
		buf: make([]byte, initialCapacity),
	}
}

// Pending reports the number of unconsumed bytes currently held.
func (b *LineBuffer) Pending() int {
	return b.writePos - b.readPos
}

// maybeCompact slides unconsumed bytes down to the start of the backing
// array once more than half the buffer is dead space behind readPos. This
// keeps Append's memmove cost bounded relative to the live data, rather
// than growing on every call once the buffer fills.
func (b *LineBuffer) maybeCompact() {
	if b.readPos == 0 || b.readPos <= len(b.buf)/2 {
		return
	}
	n := copy(b.buf, b.buf[b.readPos:b.writePos])
	b.writePos = n
	b.readPos = 0
}

// grow ensures at least extra more bytes are available past writePos,
// doubling capacity (via an overflow-checked multiply) until it fits.
func (b *LineBuffer) grow(extra int) {
	needed := b.writePos + extra
	if needed <= len(b.buf) {
		return
	}

	newCap := int64(len(b.buf))
	if newCap == 0 {
		newCap = minLineBufferCapacity
	}
	for int(newCap) < needed {
		doubled, err := conduitmath.MultiplyExact(newCap, 2)
		if err != nil {
			newCap = int64(needed)
			break
		}
		newCap = doubled
	}

	grown := make([]byte, newCap)
	copy(grown, b.buf[:b.writePos])
	b.buf = grown
}

// Append adds data to the buffer, compacting first if more than half the
// buffer is dead space behind readPos, then growing the backing array if
// the data still does not fit. Amortized O(1) per byte appended.
func (b *LineBuffer) Append(data []byte) {
	if len(data) == 0 {
		return
	}
	b.maybeCompact()
	b.grow(len(data))
	b.writePos += copy(b.buf[b.writePos:], data)
}

// NextLine extracts the next complete line from the buffer, recognizing
// "\n", "\r\n", and a lone "\r" as terminators. It returns the line without
// its terminator and ok == true if a complete line was available; otherwise
// it returns ok == false and leaves the buffer untouched so a later Append
// can complete the pending line.
func (b *LineBuffer) NextLine() (line []byte, ok bool) {
	window := b.buf[b.readPos:b.writePos]

	lf := bytes.IndexByte(window, '\n')
	cr := bytes.IndexByte(window, '\r')

	var cut int
	var delimLen int
	switch {
	case cr >= 0 && (lf < 0 || cr < lf):
		cut = cr
		delimLen = 1
		if cr+1 < len(window) && window[cr+1] == '\n' {
			delimLen = 2
		}
	case lf >= 0:
		cut = lf
		delimLen = 1
	default:
		return nil, false
	}

	line = make([]byte, cut)
	copy(line, window[:cut])
	b.readPos += cut + delimLen
	b.maybeCompact()
	return line, true
}

// Drain returns all bytes remaining in the buffer, including any complete
// lines not yet taken by NextLine (typically only a final partial line at
// EOF), and resets the buffer to empty.
func (b *LineBuffer) Drain() []byte {
	remaining := make([]byte, b.writePos-b.readPos)
	copy(remaining, b.buf[b.readPos:b.writePos])
	b.readPos = 0
	b.writePos = 0
	return remaining
}
