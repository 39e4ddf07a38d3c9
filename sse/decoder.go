package sse

import (
	"io"

	conduitbufio "github.com/christopherkarani/Conduit/pkg/bufio"
)

// readChunkSize is how much is read from the underlying reader per Append.
const readChunkSize = 4096

// Decoder processes an SSE stream from an io.Reader, parsing fields and
// detecting message boundaries via a Parser fed one line at a time by a
// LineBuffer. Note: the decoder does not close the underlying reader.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	source  io.Reader
	lines   *conduitbufio.LineBuffer
	parser  *Parser
	current Message
	pending []Message
	err     error
	eof     bool
	chunk   []byte
}

// NewDecoder creates a new SSE decoder that reads messages from inputReader.
// A leading UTF-8 BOM on the stream is skipped transparently.
func NewDecoder(inputReader io.Reader) *Decoder {
	return &Decoder{
		source: inputReader,
		lines:  conduitbufio.NewLineBuffer(512),
		parser: NewParser(),
		chunk:  make([]byte, readChunkSize),
	}
}

// LastEventID returns the most recently seen id field, persisting across
// messages until a later id field replaces it.
func (d *Decoder) LastEventID() string {
	return d.parser.LastEventID()
}

// collect appends a dispatched message to the pending queue.
func (d *Decoder) collect(msg Message) {
	d.pending = append(d.pending, msg)
}

// fillLines drains whatever complete lines are already buffered, then, if
// no message was produced and the stream isn't finished, reads one more
// chunk from the source and repeats. It returns as soon as at least one
// message is pending, the stream ends, or an error occurs — it never reads
// further than needed to produce the next message.
func (d *Decoder) fillLines() {
	for {
		for {
			line, ok := d.lines.NextLine()
			if !ok {
				break
			}
			d.parser.IngestLine(line, d.collect)
		}

		if len(d.pending) > 0 {
			return
		}

		if d.eof {
			remainder := d.lines.Drain()
			if len(remainder) > 0 {
				d.parser.IngestLine(remainder, d.collect)
			}
			d.parser.Finish(d.collect)
			return
		}

		n, readErr := d.source.Read(d.chunk)
		if n > 0 {
			d.lines.Append(d.chunk[:n])
		}
		if readErr != nil {
			if readErr != io.EOF {
				d.err = readErr
			}
			d.eof = true
		}
	}
}

// Current returns the most recently decoded message. Should be called
// after Next() returns true.
func (d *Decoder) Current() Message {
	return d.current
}

// Next advances to the next message in the stream, returning true if one
// was decoded or false if the stream ended or an error occurred.
func (d *Decoder) Next() bool {
	if d.err != nil {
		return false
	}

	for len(d.pending) == 0 {
		if d.eof {
			return false
		}
		d.fillLines()
		if d.err != nil {
			return false
		}
		if d.eof && len(d.pending) == 0 {
			return false
		}
	}

	d.current = d.pending[0]
	d.pending = d.pending[1:]
	return true
}

// Error returns any error encountered during decoding, distinct from the
// ordinary EOF that ends a stream (which reports no error).
func (d *Decoder) Error() error {
	return d.err
}
