package inputsim

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeLiteral decodes a single Python string literal such as 'a', "b\n",
// r'c', f"d" or '''e'''. ok is false for anything else, including implicit
// concatenation and malformed escapes.
func decodeLiteral(raw string) (string, bool) {
	prefixLen := 0
	for prefixLen < len(raw) && prefixLen < 2 && strings.ContainsRune("rRuUbBfF", rune(raw[prefixLen])) {
		prefixLen++
	}
	prefix := strings.ToLower(raw[:prefixLen])
	body := raw[prefixLen:]
	isRaw := strings.Contains(prefix, "r")

	var quote string
	switch {
	case strings.HasPrefix(body, `"""`), strings.HasPrefix(body, `'''`):
		quote = body[:3]
	case strings.HasPrefix(body, `"`), strings.HasPrefix(body, `'`):
		quote = body[:1]
	default:
		return "", false
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	inner := body[len(quote) : len(body)-len(quote)]
	if len(quote) == 1 && unescapedIndex(inner, quote[0]) >= 0 {
		return "", false
	}
	if isRaw {
		return inner, true
	}
	return unescape(inner)
}

// unescapedIndex returns the index of the first q in s not preceded by a backslash escape.
func unescapedIndex(s string, q byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}

func unescape(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		if i+1 >= len(s) {
			return "", false
		}
		next := s[i+1]
		switch next {
		case '\n':
			i += 2
		case '\\', '\'', '"':
			b.WriteByte(next)
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 'a':
			b.WriteByte('\a')
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case 'v':
			b.WriteByte('\v')
			i += 2
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			code, _ := strconv.ParseUint(s[i+1:j], 8, 32)
			b.WriteRune(rune(code))
			i = j
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[next]
			if i+2+width > len(s) {
				return "", false
			}
			code, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(code)) {
				return "", false
			}
			b.WriteRune(rune(code))
			i += 2 + width
		default:
			// unknown escapes keep their backslash
			b.WriteByte('\\')
			i++
		}
	}
	return b.String(), true
}
