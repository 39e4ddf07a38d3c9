// Package sse implements the Server-Sent Events wire format: field
// parsing, multiline data accumulation, and dispatch timing, independent
// of any transport.
//
// # Architecture
//
// The package is organized into two layers:
//
//   - Parser: the low-level field-accumulation state machine. Feed it
//     lines via IngestLine; it calls back with a Message whenever a blank
//     line (or Finish, at stream end) completes one.
//   - Decoder: wraps a Parser and a pkg/bufio.LineBuffer around an
//     io.Reader for Next/Current-style consumption.
//
// Encoder sits on the other side, turning a Message back into wire bytes.
//
// # Message Structure
//
//	type Message struct {
//	    ID    string
//	    Event string
//	    Data  []byte
//	    Retry int
//	}
//
// The wire format:
//
//	id: message-id
//	event: event-type
//	data: payload line 1
//	data: payload line 2
//	retry: 3000
//	<blank line>
//
// # Decoding
//
//	decoder := sse.NewDecoder(r)
//	for decoder.Next() {
//	    msg := decoder.Current()
//	    process(msg)
//	}
//	if err := decoder.Error(); err != nil {
//	    log.Printf("decode error: %v", err)
//	}
//
// For finer control over where line boundaries come from — a stream that
// doesn't arrive via io.Reader, or one already split into chunks by
// something else — drive a Parser directly:
//
//	parser := sse.NewParser()
//	parser.IngestLine([]byte("data: hello"), nil)
//	parser.IngestLine(nil, func(msg sse.Message) {
//	    process(msg)
//	})
//
// # Encoding
//
//	encoder := sse.NewEncoder()
//	encoded, err := encoder.Encode(&sse.Message{
//	    Event: "notification",
//	    Data:  []byte("hello world"),
//	})
//	// encoded: "event: notification\ndata: hello world\n\n"
//
// RelayJSONFragment composes the Encoder with this module's JSON repair
// and completion packages, for a caller streaming JSON out of an LLM and
// re-emitting each partial fragment as a valid SSE message:
//
//	encoded, err := sse.RelayJSONFragment(encoder, "delta", partialJSON, 0)
//
// # Protocol Details
//
//   - A leading UTF-8 BOM (U+FEFF) is ignored.
//   - All of CRLF, CR, and LF line endings are accepted.
//   - Lines beginning with ':' are comments and ignored.
//   - A field with no colon is treated as a field name with an empty value.
//   - A dispatched Message carries id, event, data, and retry only from
//     its own block. The last event id (LastEventID) and the reconnection
//     time (Parser.ReconnectionTime) persist across dispatched messages
//     until replaced.
//   - An id field containing a NUL byte is rejected outright.
//   - A retry field is parsed as a positive integer; on overflow, zero, or
//     a non-numeric value, it is ignored and the previous reconnection
//     time persists.
//   - A block with no id, event, or data (a bare retry field, or nothing
//     at all) is not dispatched as a message.
//
// Event names must follow DOM naming rules: non-empty, starting with a
// letter, with no leading/trailing/doubled dots, containing only letters,
// digits, dots, hyphens, and underscores. An empty event name is valid —
// clients default it to "message".
//
// # Concurrency
//
// Parser, Decoder, and Message hold mutable state and are not safe for
// concurrent use; use one instance per goroutine. Encoder is stateless and
// safe for concurrent use.
package sse
