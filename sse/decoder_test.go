package sse

import (
	"errors"
	"strings"
	"testing"
)

func decodeAll(t *testing.T, input string) []Message {
	t.Helper()
	dec := NewDecoder(strings.NewReader(input))
	var out []Message
	for dec.Next() {
		out = append(out, dec.Current())
	}
	if err := dec.Error(); err != nil {
		t.Fatalf("decoder error: %v", err)
	}
	return out
}

func TestDecoderSingleMessage(t *testing.T) {
	msgs := decodeAll(t, "event: greeting\ndata: hello\n\n")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Event != "greeting" || string(msgs[0].Data) != "hello" {
		t.Fatalf("got %+v", msgs[0])
	}
}

func TestDecoderMultilineData(t *testing.T) {
	msgs := decodeAll(t, "data: line one\ndata: line two\n\n")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if string(msgs[0].Data) != "line one\nline two" {
		t.Fatalf("got data %q", msgs[0].Data)
	}
}

func TestDecoderIgnoresComments(t *testing.T) {
	msgs := decodeAll(t, ": this is a comment\ndata: payload\n\n")
	if len(msgs) != 1 || string(msgs[0].Data) != "payload" {
		t.Fatalf("got %+v", msgs)
	}
}

func TestDecoderIDIsScopedToItsOwnMessage(t *testing.T) {
	msgs := decodeAll(t, "id: 1\ndata: a\n\ndata: b\n\nid: 2\ndata: c\n\n")
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].ID != "1" || msgs[1].ID != "" || msgs[2].ID != "2" {
		t.Fatalf("IDs = %q, %q, %q", msgs[0].ID, msgs[1].ID, msgs[2].ID)
	}
}

func TestDecoderRetryOnlyBlockSuppressed(t *testing.T) {
	msgs := decodeAll(t, "retry: 5000\n\ndata: after\n\n")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (retry-only block should not dispatch)", len(msgs))
	}
	if string(msgs[0].Data) != "after" {
		t.Fatalf("got %+v", msgs[0])
	}
	if msgs[0].Retry != -1 {
		t.Fatalf("Retry = %d, want -1 (the retry-only block's value is not carried into the next message)", msgs[0].Retry)
	}
}

func TestDecoderUnterminatedFinalMessageIsFlushed(t *testing.T) {
	msgs := decodeAll(t, "data: no trailing blank line")
	if len(msgs) != 1 || string(msgs[0].Data) != "no trailing blank line" {
		t.Fatalf("got %+v", msgs)
	}
}

func TestDecoderCRLFLineEndings(t *testing.T) {
	msgs := decodeAll(t, "event: e\r\ndata: d\r\n\r\n")
	if len(msgs) != 1 || msgs[0].Event != "e" || string(msgs[0].Data) != "d" {
		t.Fatalf("got %+v", msgs)
	}
}

func TestDecoderLeadingBOMStripped(t *testing.T) {
	msgs := decodeAll(t, "\xEF\xBB\xBFdata: hello\n\n")
	if len(msgs) != 1 || string(msgs[0].Data) != "hello" {
		t.Fatalf("got %+v", msgs)
	}
}

func TestDecoderIDWithNULByteRejected(t *testing.T) {
	msgs := decodeAll(t, "id: 1\ndata: first\n\nid: ba\x00d\ndata: second\n\n")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].ID != "" {
		t.Fatalf("second message ID = %q, want empty since its only id field contained a NUL and was rejected", msgs[1].ID)
	}
}

func TestDecoderFieldWithoutColonTreatedAsEmptyValue(t *testing.T) {
	msgs := decodeAll(t, "data\n\n")
	if len(msgs) != 1 || string(msgs[0].Data) != "" {
		t.Fatalf("got %+v", msgs)
	}
}

func TestDecoderMultipleMessagesInOneStream(t *testing.T) {
	msgs := decodeAll(t, "data: one\n\ndata: two\n\ndata: three\n\n")
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i, want := range []string{"one", "two", "three"} {
		if string(msgs[i].Data) != want {
			t.Errorf("message %d data = %q, want %q", i, msgs[i].Data, want)
		}
	}
}

type errReader struct{ err error }

func (r errReader) Read(p []byte) (int, error) { return 0, r.err }

func TestDecoderPropagatesReadError(t *testing.T) {
	boom := errors.New("boom")
	dec := NewDecoder(errReader{err: boom})
	if dec.Next() {
		t.Fatal("expected Next() to return false on read error")
	}
	if !errors.Is(dec.Error(), boom) {
		t.Fatalf("Error() = %v, want %v", dec.Error(), boom)
	}
}

func TestDecoderRetryOverflowIgnored(t *testing.T) {
	msgs := decodeAll(t, "retry: 99999999999\ndata: x\n\n")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Retry != -1 {
		t.Fatalf("Retry = %d, want -1 (overflowing retry value must be rejected)", msgs[0].Retry)
	}
}

func TestDecoderLastEventIDTracksAcrossMessages(t *testing.T) {
	dec := NewDecoder(strings.NewReader("id: abc\ndata: x\n\ndata: y\n\n"))
	if !dec.Next() {
		t.Fatalf("Next() = false, err = %v", dec.Error())
	}
	if !dec.Next() {
		t.Fatalf("second Next() = false, err = %v", dec.Error())
	}
	if dec.LastEventID() != "abc" {
		t.Fatalf("LastEventID() = %q, want %q", dec.LastEventID(), "abc")
	}
}
