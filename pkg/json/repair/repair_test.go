package repair

import "testing"

func TestRepairEmptyInput(t *testing.T) {
	tests := []string{"", "   ", "\n\t \r"}
	for _, in := range tests {
		if got := Repair(in, 64); got != "{}" {
			t.Errorf("Repair(%q) = %q, want %q", in, got, "{}")
		}
	}
}

func TestRepairClosesUnterminatedObject(t *testing.T) {
	got := Repair(`{"a":1,"b":2`, 64)
	want := `{"a":1,"b":2}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRepairClosesUnterminatedArray(t *testing.T) {
	got := Repair(`[1,2,3`, 64)
	if got != `[1,2,3]` {
		t.Errorf("got %q", got)
	}
}

func TestRepairNestedBrackets(t *testing.T) {
	got := Repair(`{"a":[1,2,{"b":3`, 64)
	if got != `{"a":[1,2,{"b":3}]}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairClosesUnterminatedString(t *testing.T) {
	got := Repair(`{"name": "incomplete`, 64)
	if got != `{"name": "incomplete"}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairRemovesTrailingComma(t *testing.T) {
	got := Repair(`{"a":1,"b":2,`, 64)
	if got != `{"a":1,"b":2}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairRemovesKeyWithNoValue(t *testing.T) {
	got := Repair(`{"a":1,"b":`, 64)
	if got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairRemovesIncompleteKeyAtObjectStart(t *testing.T) {
	got := Repair(`{"incomplete_ke`, 64)
	if got != `{}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairRemovesIncompleteKeyAfterComma(t *testing.T) {
	got := Repair(`{"a":1,"incomplete_ke`, 64)
	if got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairKeepsCompleteStringInArrayContext(t *testing.T) {
	// A complete trailing string inside an array is a value, not an
	// incomplete key, and must be preserved.
	got := Repair(`["a","b"`, 64)
	if got != `["a","b"]` {
		t.Errorf("got %q", got)
	}
}

func TestRepairRemovesPartialUnicodeEscape(t *testing.T) {
	got := Repair(`{"a":"val\u00`, 64)
	if got != `{"a":"val"}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairKeepsCompleteUnicodeEscape(t *testing.T) {
	got := Repair(`{"a":"val\u0041`, 64)
	if got != `{"a":"val\u0041"}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairTrailingBackslashRemoved(t *testing.T) {
	got := Repair(`{"a":"val\`, 64)
	if got != `{"a":"val"}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairTrailingCommaBeforeCloser(t *testing.T) {
	got := Repair(`{"a":[1,2,],"b":3}`, 64)
	if got != `{"a":[1,2],"b":3}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairAlreadyValidInputUnchanged(t *testing.T) {
	got := Repair(`{"a":1,"b":[1,2,3]}`, 64)
	if got != `{"a":1,"b":[1,2,3]}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairBracketInsideStringNotCountedAsNesting(t *testing.T) {
	got := Repair(`{"key": "[value"`, 64)
	if got != `{"key": "[value"}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairMaxDepthClampedToAtLeastOne(t *testing.T) {
	got := Repair(`{"a":1`, 0)
	if got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestRepairDeepNesting(t *testing.T) {
	got := Repair(`{"a":{"b":{"c":{"d":1`, 64)
	if got != `{"a":{"b":{"c":{"d":1}}}}` {
		t.Errorf("got %q", got)
	}
}
