package sse

import (
	"bytes"
	"math"
	"strings"
)

// Parser implements the SSE field-accumulation and dispatch-timing state
// machine described by the specification, independent of how lines are
// sourced. Callers feed it one line at a time, with line terminators
// already stripped, via IngestLine, and supply a callback invoked whenever
// a complete event is ready to dispatch.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	currentID    string
	currentEvent string
	currentData  strings.Builder
	currentRetry int

	hasID    bool
	hasEvent bool
	hasData  bool

	lastEventID      string
	reconnectionTime int
}

// NewParser returns a Parser with the default reconnection time.
func NewParser() *Parser {
	return &Parser{
		currentRetry:     -1,
		reconnectionTime: defaultReconnectionTimeMillis,
	}
}

// LastEventID returns the most recently seen id field, persisting across
// dispatches until a later id field replaces it.
func (p *Parser) LastEventID() string {
	return p.lastEventID
}

// ReconnectionTime returns the most recently seen retry field, persisting
// across dispatches. Defaults to 3000 until a valid retry field is seen.
func (p *Parser) ReconnectionTime() int {
	return p.reconnectionTime
}

func (p *Parser) resetCurrentEvent() {
	p.currentID = ""
	p.currentEvent = ""
	p.currentData.Reset()
	p.currentRetry = -1
	p.hasID = false
	p.hasEvent = false
	p.hasData = false
}

// dispatchIfNeeded builds a Message from the accumulated fields and invokes
// onEvent, unless no id, event, or data field was accumulated (a
// "retry-only" or wholly empty block is not dispatched). A data field with
// an empty value still counts and is dispatched.
func (p *Parser) dispatchIfNeeded(onEvent func(Message)) {
	isDataEmpty := p.currentData.Len() == 0
	isRetryOnly := isDataEmpty && !p.hasID && !p.hasEvent && !p.hasData
	if isRetryOnly {
		p.resetCurrentEvent()
		return
	}

	msg := Message{
		Data:  []byte(p.currentData.String()),
		Retry: p.currentRetry,
	}
	if p.hasID {
		msg.ID = p.currentID
	}
	if p.hasEvent {
		msg.Event = p.currentEvent
	}
	if onEvent != nil {
		onEvent(msg)
	}
	p.resetCurrentEvent()
}

// normalizeValue trims a single leading space from a field value, per the
// SSE spec. Bytes are otherwise passed through unchanged, including
// malformed UTF-8 — this package performs no Unicode normalization or
// substitution.
func normalizeValue(value string) string {
	return strings.TrimPrefix(value, whitespace)
}

// IngestLine feeds one line of input (terminator already stripped) into the
// parser, updating internal state and invoking onEvent if the line
// completes a dispatchable event (an empty line).
func (p *Parser) IngestLine(line []byte, onEvent func(Message)) {
	// Strip any trailing CR bytes a caller's line-splitting left behind.
	for len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	// Strip a leading UTF-8 BOM if present on this line.
	line = bytes.TrimPrefix(line, utf8BomSequence)

	if len(line) == 0 {
		p.dispatchIfNeeded(onEvent)
		return
	}

	if line[0] == ':' {
		return
	}

	fieldName, fieldValue, hasColon := strings.Cut(string(line), delimiter)
	if !hasColon {
		fieldValue = ""
	} else {
		fieldValue = normalizeValue(fieldValue)
	}

	switch fieldName {
	case fieldID:
		if strings.IndexByte(fieldValue, 0) >= 0 {
			return
		}
		p.currentID = fieldValue
		p.hasID = true
		p.lastEventID = fieldValue

	case fieldEvent:
		p.currentEvent = fieldValue
		p.hasEvent = true

	case fieldData:
		if p.currentData.Len() > 0 {
			p.currentData.WriteByte('\n')
		}
		p.currentData.WriteString(fieldValue)
		p.hasData = true

	case fieldRetry:
		if ms, ok := parseRetryMillis(fieldValue); ok && ms > 0 {
			p.currentRetry = ms
			p.reconnectionTime = ms
		}
	}
}

// Finish flushes any event accumulated but not yet terminated by a blank
// line, as happens when a stream ends mid-message. It dispatches only if
// there is data, an id, or an event pending.
func (p *Parser) Finish(onEvent func(Message)) {
	if p.currentData.Len() > 0 || p.hasID || p.hasEvent {
		p.dispatchIfNeeded(onEvent)
	}
}

// parseRetryMillis parses a retry field value digit by digit, matching the
// reference parser's overflow behavior: the accumulator is checked against
// maxRetryMillisBeforeOverflow before each multiply-and-add, so a value
// with excess digits is rejected rather than wrapping. A final value above
// math.MaxInt32 is rejected as well.
func parseRetryMillis(value string) (ms int, valid bool) {
	if value == "" {
		return 0, false
	}
	valid = true
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		if ms > maxRetryMillisBeforeOverflow {
			valid = false
			continue
		}
		ms = ms*10 + int(c-'0')
	}
	if ms > math.MaxInt32 {
		return 0, false
	}
	return ms, valid
}
