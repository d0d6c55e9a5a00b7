package parser

// escapeChar escapes the next character in lists and parameters.
const escapeChar = '\\'

// skipWS returns the index of the first non-whitespace byte at or after i,
// or len(s).
func skipWS(s string, i int) int {
	for i < len(s) && isWhitespace(s[i]) {
		i++
	}
	return i
}

// skipWSBack returns the index of the last non-whitespace byte at or before
// i, or -1.
func skipWSBack(s string, i int) int {
	for i >= 0 && isWhitespace(s[i]) {
		i--
	}
	return i
}

// findNextUnescaped returns the index of the next ch at or after start
// that is not preceded by the escape character, or -1.
func findNextUnescaped(s string, ch byte, start int) int {
	for i := start; i < len(s); i++ {
		if s[i] == escapeChar {
			i++
			continue
		}
		if s[i] == ch {
			return i
		}
	}
	return -1
}

// isEscaped returns true if the byte at i is preceded by an odd number of
// escape characters.
func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == escapeChar; j-- {
		n++
	}
	return n%2 == 1
}

// isWhitespace returns true if the byte is a space, tab, or newline.
func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// isQuote returns true if the byte opens a quoted string.
func isQuote(ch byte) bool {
	return ch == '\'' || ch == '"' || ch == '`'
}

// isLetter returns true if the byte is an ASCII letter.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if the byte is an ASCII digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
