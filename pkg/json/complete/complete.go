// Package complete computes the minimal suffix needed to turn a truncated
// JSON value — the prefix an LLM has streamed out so far — into a
// syntactically complete one, without re-parsing or allocating a parse
// tree. It never validates semantics, only closes open syntax.
package complete

import "strings"

// defaultMaxDepth bounds recursion into nested arrays/objects when the
// caller doesn't supply one.
const defaultMaxDepth = 64

// completion describes how to turn a partial value into a complete one:
// take input[:endOffset] and append suffix.
type completion struct {
	suffix    string
	endOffset int
	found     bool
}

func skipWS(json string, pos int) int {
	for pos < len(json) && isJSONWhitespace(json[pos]) {
		pos++
	}
	return pos
}

func isJSONWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Complete returns the completed form of input: either input unchanged
// (already complete, or empty) or input truncated at the point completion
// was needed, with the minimal closing suffix appended.
func Complete(input string, maxDepth int) string {
	if len(input) == 0 {
		return input
	}
	if maxDepth < 1 {
		maxDepth = defaultMaxDepth
	}

	c := completeValue(input, 0, 0, maxDepth)
	if !c.found {
		return input
	}

	var b strings.Builder
	b.Grow(c.endOffset + len(c.suffix))
	b.WriteString(input[:c.endOffset])
	b.WriteString(c.suffix)
	return b.String()
}

func completeString(json string, pos int) completion {
	if pos >= len(json) || json[pos] != '"' {
		return completion{}
	}

	cur := pos + 1
	escaped := false
	for cur < len(json) {
		c := json[cur]
		if c == '\\' {
			escaped = !escaped
		} else if c == '"' && !escaped {
			return completion{} // already closed
		} else {
			escaped = false
		}
		cur++
	}

	return completion{found: true, suffix: `"`, endOffset: cur}
}

func completeNumber(json string, pos int) completion {
	cur := pos
	if cur < len(json) && json[cur] == '-' {
		cur++
	}

	if cur >= len(json) {
		return completion{found: true, suffix: "0", endOffset: cur}
	}
	if json[cur] == '.' {
		return completion{found: true, suffix: "0.0", endOffset: cur}
	}

	for cur < len(json) && isDigit(json[cur]) {
		cur++
	}

	if cur < len(json) && json[cur] == '.' {
		cur++
		fracStart := cur
		for cur < len(json) && isDigit(json[cur]) {
			cur++
		}
		if cur == fracStart {
			return completion{found: true, suffix: "0", endOffset: cur}
		}
	}

	if cur < len(json) && (json[cur] == 'e' || json[cur] == 'E') {
		cur++
		if cur < len(json) && (json[cur] == '+' || json[cur] == '-') {
			cur++
		}
		if cur >= len(json) || !isDigit(json[cur]) {
			return completion{found: true, suffix: "0", endOffset: cur}
		}
		for cur < len(json) && isDigit(json[cur]) {
			cur++
		}
	}

	return completion{} // already a complete number
}

func completeSpecial(json string, pos int, value string) completion {
	cur := pos
	matched := 0
	for cur < len(json) && matched < len(value) {
		if json[cur] != value[matched] {
			return completion{}
		}
		cur++
		matched++
	}
	if matched == len(value) {
		return completion{}
	}
	return completion{found: true, suffix: value[matched:], endOffset: cur}
}

func completeArray(json string, pos int, depth, maxDepth int) completion {
	if pos >= len(json) || json[pos] != '[' {
		return completion{}
	}

	cur := pos + 1
	requiresComma := false
	lastValid := cur

	cur = skipWS(json, cur)
	if cur >= len(json) || json[cur] == ']' {
		return completion{found: true, suffix: "]", endOffset: cur}
	}

	for cur < len(json) {
		if json[cur] == ']' {
			return completion{}
		}

		if requiresComma {
			if json[cur] == ',' {
				requiresComma = false
				cur++
				cur = skipWS(json, cur)
				if cur >= len(json) {
					break
				}
				lastValid = cur
			} else {
				return completion{found: true, suffix: "]", endOffset: lastValid}
			}
		}

		if cur >= len(json) {
			break
		}
		if json[cur] == ']' {
			return completion{}
		}

		if elem := completeValue(json, cur, depth+1, maxDepth); elem.found {
			return completion{
				found:     true,
				suffix:    elem.suffix + "]",
				endOffset: elem.endOffset,
			}
		}

		end := findEndOfCompleteValue(json, cur, maxDepth)
		cur = end
		lastValid = cur
		requiresComma = true
	}

	return completion{found: true, suffix: "]", endOffset: lastValid}
}

func completeObject(json string, pos int, depth, maxDepth int) completion {
	if pos >= len(json) || json[pos] != '{' {
		return completion{}
	}

	cur := pos + 1
	requiresComma := false
	lastValid := cur

	cur = skipWS(json, cur)
	if cur >= len(json) || json[cur] == '}' {
		return completion{found: true, suffix: "}", endOffset: cur}
	}

	for cur < len(json) {
		if json[cur] == '}' {
			return completion{}
		}

		if requiresComma {
			if json[cur] == ',' {
				requiresComma = false
				cur++
				cur = skipWS(json, cur)
				if cur >= len(json) {
					break
				}
				lastValid = cur
			} else {
				return completion{found: true, suffix: "}", endOffset: lastValid}
			}
		}

		if cur >= len(json) {
			break
		}
		if json[cur] == '}' {
			return completion{}
		}

		keyComp := completeString(json, cur)
		if keyComp.found {
			return completion{
				found:     true,
				suffix:    keyComp.suffix + ": null}",
				endOffset: keyComp.endOffset,
			}
		}

		keyEnd := findEndOfCompleteValue(json, cur, maxDepth)
		if keyEnd <= cur {
			return completion{found: true, suffix: "}", endOffset: lastValid}
		}
		cur = keyEnd
		lastValid = cur

		cur = skipWS(json, cur)
		if cur >= len(json) || json[cur] != ':' {
			return completion{found: true, suffix: ": null}", endOffset: lastValid}
		}
		cur++
		lastValid = cur

		cur = skipWS(json, cur)
		if cur >= len(json) {
			return completion{found: true, suffix: "null}", endOffset: lastValid}
		}

		valComp := completeValue(json, cur, depth+1, maxDepth)
		if valComp.found {
			return completion{
				found:     true,
				suffix:    valComp.suffix + "}",
				endOffset: valComp.endOffset,
			}
		}

		valEnd := findEndOfCompleteValue(json, cur, maxDepth)
		cur = valEnd
		lastValid = cur
		requiresComma = true
	}

	return completion{found: true, suffix: "}", endOffset: lastValid}
}

func completeValue(json string, pos, depth, maxDepth int) completion {
	if depth >= maxDepth {
		return completion{}
	}

	pos = skipWS(json, pos)
	if pos >= len(json) {
		return completion{}
	}

	switch c := json[pos]; {
	case c == '{':
		return completeObject(json, pos, depth, maxDepth)
	case c == '[':
		return completeArray(json, pos, depth, maxDepth)
	case c == '"':
		return completeString(json, pos)
	case c == 't':
		return completeSpecial(json, pos, "true")
	case c == 'f':
		return completeSpecial(json, pos, "false")
	case c == 'n':
		return completeSpecial(json, pos, "null")
	case c == '-' || isDigit(c):
		return completeNumber(json, pos)
	default:
		return completion{}
	}
}

// findEndOfCompleteValue returns the offset just past the value starting
// at pos, whether that value is complete or needs completion — used by the
// array/object walkers to skip past a sibling element. It first runs
// completeValue at depth 0 and, if the value needs completion, returns that
// completion's end offset; otherwise it scans to the end of the complete
// value.
func findEndOfCompleteValue(json string, pos, maxDepth int) int {
	pos = skipWS(json, pos)
	if pos >= len(json) {
		return pos
	}

	if c := completeValue(json, pos, 0, maxDepth); c.found {
		return c.endOffset
	}

	switch json[pos] {
	case '"':
		cur := pos + 1
		escaped := false
		for cur < len(json) {
			if json[cur] == '\\' {
				escaped = !escaped
			} else if json[cur] == '"' && !escaped {
				return cur + 1
			} else {
				escaped = false
			}
			cur++
		}
		return cur

	case '{', '[':
		open := json[pos]
		close := byte('}')
		if open == '[' {
			close = ']'
		}
		level := 0
		cur := pos
		inStr := false
		esc := false
		for cur < len(json) {
			ch := json[cur]
			if inStr {
				if ch == '\\' {
					esc = !esc
				} else if ch == '"' && !esc {
					inStr = false
				} else {
					esc = false
				}
			} else {
				switch {
				case ch == '"':
					inStr = true
					esc = false
				case ch == open:
					level++
				case ch == close:
					level--
					if level == 0 {
						return cur + 1
					}
				}
			}
			cur++
		}
		return cur

	case 't':
		if pos+4 <= len(json) && json[pos:pos+4] == "true" {
			return pos + 4
		}
	case 'f':
		if pos+5 <= len(json) && json[pos:pos+5] == "false" {
			return pos + 5
		}
	case 'n':
		if pos+4 <= len(json) && json[pos:pos+4] == "null" {
			return pos + 4
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		cur := pos
		for cur < len(json) {
			ch := json[cur]
			if ch == '-' || ch == '+' || ch == '.' || ch == 'e' || ch == 'E' || isDigit(ch) {
				cur++
				continue
			}
			break
		}
		return cur
	}

	return pos
}
