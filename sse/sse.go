// Package sse implements the Server-Sent Events wire protocol as a pair of
// decoupled primitives: a low-level Parser that ingests one line at a time
// and dispatches fully-formed events, and a Decoder that wraps the Parser
// around an io.Reader for convenient consumption.
//
// SSE is a one-way, text-based push protocol. A stream is a sequence of
// fields terminated by a blank line:
//
//	id: 42
//	event: notification
//	data: payload line 1
//	data: payload line 2
//	retry: 3000
//	<blank line>
//
// This package only implements the wire format itself: field parsing,
// multiline data accumulation, id/retry persistence, and dispatch timing.
// It does not perform any networking, HTTP handling, or reconnection.
package sse

import (
	"errors"
	"regexp"
	"strings"
)

// Sentinel errors returned by Encoder.Encode.
var (
	// ErrMessageNoContent is returned when a message has no id, event, or data.
	ErrMessageNoContent = errors.New("sse: message has no content")
	// ErrMessageInvalidEventName is returned when the event name violates DOM naming rules.
	ErrMessageInvalidEventName = errors.New("sse: invalid event name")
)

// Message is a single dispatched SSE event.
type Message struct {
	ID    string // empty unless this event's own block had an accepted id field
	Event string // empty unless an event field preceded this dispatch
	Data  []byte // joined data lines, without the trailing separator
	Retry int    // reconnection time in milliseconds, -1 if not set on this dispatch
}

const (
	fieldID    = "id"
	fieldEvent = "event"
	fieldData  = "data"
	fieldRetry = "retry"

	delimiter  = ":"
	whitespace = " "

	eventNameMessage = "message"

	// defaultReconnectionTimeMillis is the reconnection time a Parser
	// reports before any retry field has ever been seen on the stream.
	defaultReconnectionTimeMillis = 3000

	// maxRetryMillisBeforeOverflow caps the digit-by-digit retry parse so it
	// never overflows a 32-bit signed accumulator before the final value is
	// checked against math.MaxInt32.
	maxRetryMillisBeforeOverflow = 214748364
)

var (
	byteLF          = []byte("\n")
	byteCR          = []byte("\r")
	byteEscapedCR   = []byte("\\r")
	utf8BomSequence = []byte{0xEF, 0xBB, 0xBF}

	fieldPrefixID    = []byte("id: ")
	fieldPrefixEvent = []byte("event: ")
	fieldPrefixData  = []byte("data: ")
	fieldPrefixRetry = []byte("retry: ")

	lineBreakReplacer = strings.NewReplacer("\n", "\\n", "\r", "\\r")
)

// domEventNamePattern matches the subset of DOM event names this package
// accepts: a leading letter followed by letters, digits, '.', '-', or '_',
// with no leading/trailing dot and no repeated dots.
var domEventNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*(\.[A-Za-z0-9_-]+)*$`)

// isValidDOMEventName reports whether name follows DOM event-name rules.
func isValidDOMEventName(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return false
	}
	return domEventNamePattern.MatchString(name)
}

// isValidSSEEventName reports whether name is acceptable as a Message.Event
// value. An empty name is valid (callers default it to "message").
func isValidSSEEventName(name string) bool {
	if name == "" {
		return true
	}
	return isValidDOMEventName(name)
}
