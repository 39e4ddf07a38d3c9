// Package repair turns a truncated or otherwise malformed JSON document —
// the kind an LLM emits mid-stream, before it has closed its brackets —
// into syntactically valid JSON, in a single forward pass over the input.
//
// It does not validate or parse the result: a repaired document can still
// be semantically nonsensical, just syntactically closed. Use
// encoding/json to parse the output once repaired.
package repair

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// MaxBracketDepth is the deepest bracket nesting tracked on the repair
// stack. Nesting beyond this depth is still copied through but no longer
// contributes a closer, matching the reference implementation's fixed
// stack cap.
const MaxBracketDepth = 256

// bracketStack tracks, for each open bracket up to MaxBracketDepth, whether
// it is a '{' (bit set) or a '[' (bit clear). A bitset is a natural fit
// here: depth is bounded and each slot is a single boolean.
type bracketStack struct {
	kinds *bitset.BitSet
	depth int
}

func newBracketStack(maxDepth int) *bracketStack {
	return &bracketStack{kinds: bitset.New(uint(maxDepth))}
}

func (s *bracketStack) push(isBrace bool, maxDepth int) {
	if s.depth >= maxDepth {
		return
	}
	if isBrace {
		s.kinds.Set(uint(s.depth))
	} else {
		s.kinds.Clear(uint(s.depth))
	}
	s.depth++
}

func (s *bracketStack) pop() {
	if s.depth > 0 {
		s.depth--
	}
}

func (s *bracketStack) closerAt(i int) byte {
	if s.kinds.Test(uint(i)) {
		return '}'
	}
	return ']'
}

// Repair closes unterminated strings, arrays, and objects in input and
// strips trailing commas and incomplete trailing key-value pairs, so that
// the result is syntactically valid JSON. maxDepth bounds how many levels
// of nesting are tracked for closing; it is clamped to MaxBracketDepth.
//
// Whitespace-only or empty input repairs to "{}".
func Repair(input string, maxDepth int) string {
	if maxDepth < 1 {
		maxDepth = 1
	}
	if maxDepth > MaxBracketDepth {
		maxDepth = MaxBracketDepth
	}

	start := 0
	for start < len(input) && isJSONWhitespace(input[start]) {
		start++
	}
	if start >= len(input) {
		return "{}"
	}

	var out strings.Builder
	out.Grow(len(input) - start)

	inString := false
	escapeNext := false
	stack := newBracketStack(maxDepth)

	for i := start; i < len(input); i++ {
		c := input[i]

		if escapeNext {
			escapeNext = false
			out.WriteByte(c)
			continue
		}
		if inString {
			switch c {
			case '\\':
				escapeNext = true
			case '"':
				inString = false
			}
			out.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack.push(true, maxDepth)
		case '}':
			stack.pop()
		case '[':
			stack.push(false, maxDepth)
		case ']':
			stack.pop()
		}
		out.WriteByte(c)
	}

	buf := []byte(out.String())

	if inString {
		buf = removePartialUnicodeEscape(buf)
		if escapeNext && len(buf) > 0 && buf[len(buf)-1] == '\\' {
			buf = buf[:len(buf)-1]
		}
		buf = append(buf, '"')
	}

	buf = trimTrailingWhitespace(buf)
	if len(buf) > 0 && buf[len(buf)-1] == ',' {
		buf = buf[:len(buf)-1]
	}

	buf = removeIncompleteKVP(buf)

	for i := stack.depth - 1; i >= 0; i-- {
		buf = trimTrailingWhitespace(buf)
		if len(buf) > 0 && buf[len(buf)-1] == ',' {
			buf = buf[:len(buf)-1]
		}
		buf = append(buf, stack.closerAt(i))
	}

	return string(removeTrailingCommas(buf))
}

func isJSONWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func trimTrailingWhitespace(buf []byte) []byte {
	n := len(buf)
	for n > 0 && isJSONWhitespace(buf[n-1]) {
		n--
	}
	return buf[:n]
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// removePartialUnicodeEscape strips a trailing "\uXXX" escape (fewer than
// four hex digits) left dangling by truncation, by searching the last six
// bytes of buf for the backslash that starts it.
func removePartialUnicodeEscape(buf []byte) []byte {
	if len(buf) < 2 {
		return buf
	}
	searchStart := 0
	if len(buf) > 6 {
		searchStart = len(buf) - 6
	}
	backslashPos := len(buf)
	for i := searchStart; i < len(buf); i++ {
		if buf[i] == '\\' {
			backslashPos = i
		}
	}
	if backslashPos >= len(buf) || backslashPos+1 >= len(buf) {
		return buf
	}
	if buf[backslashPos+1] != 'u' {
		return buf
	}
	hexCount := 0
	for i := backslashPos + 2; i < len(buf) && isHexDigit(buf[i]); i++ {
		hexCount++
	}
	if hexCount < 4 {
		return buf[:backslashPos]
	}
	return buf
}

type jsonContext int

const (
	ctxUnknown jsonContext = iota
	ctxObject
	ctxArray
)

// findContext determines whether position end of buf sits inside an object
// or an array, by scanning forward from the start with string-awareness —
// a backward scan without tracking strings would miscount brackets that
// appear inside string literals.
func findContext(buf []byte, end int) jsonContext {
	stack := newBracketStack(MaxBracketDepth)
	inString := false
	escapeNext := false

	for i := 0; i < end; i++ {
		c := buf[i]
		if escapeNext {
			escapeNext = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escapeNext = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack.push(true, MaxBracketDepth)
		case '}':
			stack.pop()
		case '[':
			stack.push(false, MaxBracketDepth)
		case ']':
			stack.pop()
		}
	}

	if stack.depth == 0 {
		return ctxUnknown
	}
	if stack.kinds.Test(uint(stack.depth - 1)) {
		return ctxObject
	}
	return ctxArray
}

// removeIncompleteKVP strips a trailing comma, a trailing "key:" with no
// value, or a trailing quoted string that can only be an unfinished object
// key (because it directly follows '{' or a comma inside an object).
func removeIncompleteKVP(buf []byte) []byte {
	n := len(trimTrailingWhitespace(buf))

	if n > 0 && buf[n-1] == ',' {
		n--
		n = len(trimTrailingWhitespace(buf[:n]))
	}

	if n > 0 && buf[n-1] == ':' {
		n--
		n = len(trimTrailingWhitespace(buf[:n]))

		if n > 0 && buf[n-1] == '"' {
			n--
			for n > 0 && buf[n-1] != '"' {
				n--
			}
			if n > 0 {
				n--
			}
			n = len(trimTrailingWhitespace(buf[:n]))
			if n > 0 && buf[n-1] == ',' {
				n--
			}
		}
	}

	if n > 0 && buf[n-1] == '"' {
		closeQuote := n - 1
		idx := closeQuote
		if idx > 0 {
			idx--
		}
		for idx > 0 {
			if buf[idx] == '"' {
				backslashes := 0
				check := idx
				for check > 0 && buf[check-1] == '\\' {
					backslashes++
					check--
				}
				if backslashes%2 == 0 {
					break
				}
			}
			idx--
		}

		prev := idx
		if prev > 0 {
			prev--
		}
		for prev > 0 && isJSONWhitespace(buf[prev]) {
			prev--
		}

		if prev < n && buf[prev] == '{' {
			n = idx
			n = len(trimTrailingWhitespace(buf[:n]))
		} else if prev < n && buf[prev] == ',' {
			if findContext(buf, prev) == ctxObject {
				n = idx
				n = len(trimTrailingWhitespace(buf[:n]))
				if n > 0 && buf[n-1] == ',' {
					n--
				}
			}
		}
	}

	return buf[:n]
}

// removeTrailingCommas drops any comma immediately followed, modulo
// whitespace, by a closing bracket. Written so it is safe to call with
// output aliasing input (out never runs ahead of the read position).
func removeTrailingCommas(input []byte) []byte {
	out := make([]byte, 0, len(input))
	inString := false
	escapeNext := false

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escapeNext {
			escapeNext = false
			out = append(out, c)
			continue
		}
		if inString {
			switch c {
			case '\\':
				escapeNext = true
			case '"':
				inString = false
			}
			out = append(out, c)
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(input) && isJSONWhitespace(input[j]) {
				j++
			}
			if j < len(input) && (input[j] == '}' || input[j] == ']') {
				continue
			}
		}
		out = append(out, c)
	}

	return out
}
