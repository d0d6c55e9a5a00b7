package scanner

import (
	"fmt"
	"unicode/utf8"

	"github.com/filterlists/agtree/token"
)

// eof represents the end of the input.
var eof rune = -1

// Scanner implements a CSS Syntax Level 3 tokenizer over a string.
//
// Tokens cover the input without gaps: comments and whitespace are returned
// as tokens too, so the concatenation of all token ranges is the input.
type Scanner struct {
	// Errors contains a list of all errors that occur during scanning.
	Errors []*Error

	src        string
	off        int // offset of the next byte to decode
	tokenStart int // offset of the token being scanned

	buf    [4]rune // circular buffer for runes
	bufpos [4]int  // circular buffer for rune start offsets
	bufi   int     // circular buffer index
	bufn   int     // number of buffered characters
}

// New returns a new instance of Scanner.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// Tokenize scans src and calls fn for every token, in order.
// The EOF token is not reported.
func Tokenize(src string, fn func(kind token.Kind, start, end int)) {
	s := New(src)
	for {
		tok := s.Scan()
		if tok.Kind == token.EOF {
			return
		}
		fn(tok.Kind, tok.Start, tok.End)
	}
}

// Scan returns the next token.
func (s *Scanner) Scan() token.Token {
	kind := s.scan()
	start := s.tokenStart
	return token.Token{Kind: kind, Start: start, End: s.end()}
}

// scan reads the next token and returns its kind.
// The start offset of the token is stored on the scanner.
func (s *Scanner) scan() token.Kind {
	ch := s.read()
	s.tokenStart = s.pos()

	switch {
	case ch == eof:
		return token.EOF
	case isWhitespace(ch):
		s.scanWhitespace()
		return token.Whitespace
	case ch == '"' || ch == '\'':
		return s.scanString()
	case ch == '#':
		return s.scanHash()
	case ch == '(':
		return token.LParen
	case ch == ')':
		return token.RParen
	case ch == '[':
		return token.LBrack
	case ch == ']':
		return token.RBrack
	case ch == '{':
		return token.LBrace
	case ch == '}':
		return token.RBrace
	case ch == ',':
		return token.Comma
	case ch == ':':
		return token.Colon
	case ch == ';':
		return token.Semicolon
	case ch == '+' || ch == '.':
		if s.peekNumber() {
			s.unread(1)
			return s.scanNumeric()
		}
		return token.Delim
	case isDigit(ch):
		s.unread(1)
		return s.scanNumeric()
	case ch == '-':
		// If we have a digit next, it's a numeric token. If it's an identifier
		// then scan an identifier, and if it's a "->" then it's a CDC.
		if s.peekNumber() {
			s.unread(1)
			return s.scanNumeric()
		}
		if ch1, ch2 := s.read(), s.read(); ch1 == '-' && ch2 == '>' {
			return token.CDC
		}
		s.unread(2)
		if s.peekIdent() {
			return s.scanIdent()
		}
		return token.Delim
	case ch == '/':
		// Comments are kept as tokens so that offsets stay contiguous.
		if ch1 := s.read(); ch1 == '*' {
			s.scanComment()
			return token.Comment
		}
		s.unread(1)
		return token.Delim
	case ch == '<':
		// Attempt to read a comment open ("<!--").
		// If it's not possible then rollback and return DELIM.
		if ch0 := s.read(); ch0 == '!' {
			if ch1 := s.read(); ch1 == '-' {
				if ch2 := s.read(); ch2 == '-' {
					return token.CDO
				}
				s.unread(1)
			}
			s.unread(1)
		}
		s.unread(1)
		return token.Delim
	case ch == '@':
		// This is an at-keyword token if an identifier follows.
		// Otherwise it's just a DELIM.
		if s.read(); s.peekIdent() {
			s.scanName()
			return token.AtKeyword
		}
		s.unread(1)
		return token.Delim
	case ch == '\\':
		// Return a valid escape, if possible.
		if s.peekEscape() {
			return s.scanIdent()
		}
		// Otherwise this is a parse error but continue on as a DELIM.
		s.Errors = append(s.Errors, &Error{Message: "unescaped \\", Pos: s.pos()})
		return token.Delim
	case isNameStart(ch):
		return s.scanIdent()
	}
	return token.Delim
}

// scanWhitespace consumes all whitespace after the current code point.
func (s *Scanner) scanWhitespace() {
	for {
		ch := s.read()
		if ch == eof {
			return
		} else if !isWhitespace(ch) {
			s.unread(1)
			return
		}
	}
}

// scanString consumes a quoted string.
//
// This assumes that the current code point is a single or double quote.
// An EOF closes out a string but does not return an error.
// A newline closes a string and returns a bad-string token.
func (s *Scanner) scanString() token.Kind {
	ending := s.curr()
	for {
		ch := s.read()
		if ch == eof || ch == ending {
			return token.String
		} else if ch == '\n' {
			s.unread(1)
			return token.BadString
		} else if ch == '\\' {
			if s.peekEscape() {
				s.scanEscape()
				continue
			}
			// An escaped newline is a line continuation.
			s.read()
		}
	}
}

// scanNumeric consumes a number, percentage or dimension token.
func (s *Scanner) scanNumeric() token.Kind {
	s.scanNumber()

	// If the number is immediately followed by an identifier then scan dimension.
	if s.read(); s.peekIdent() {
		s.scanName()
		return token.Dimension
	}
	s.unread(1)

	// If the number is followed by a percent sign then return a percentage.
	if ch := s.read(); ch == '%' {
		return token.Percentage
	}
	s.unread(1)

	return token.Number
}

// scanNumber consumes a number.
func (s *Scanner) scanNumber() {
	// If initial code point is + or - then consume it.
	if ch := s.read(); ch != '+' && ch != '-' {
		s.unread(1)
	}

	s.scanDigits()

	// If next code points are a full stop and digit then consume them.
	if ch0 := s.read(); ch0 == '.' {
		if ch1 := s.read(); isDigit(ch1) {
			s.scanDigits()
		} else {
			s.unread(2)
		}
	} else {
		s.unread(1)
	}

	// Consume scientific notation (e0, e+0, e-0, E0, E+0, E-0).
	if ch0 := s.read(); ch0 == 'e' || ch0 == 'E' {
		if ch1 := s.read(); ch1 == '+' || ch1 == '-' {
			if ch2 := s.read(); isDigit(ch2) {
				s.scanDigits()
			} else {
				s.unread(3)
			}
		} else if isDigit(ch1) {
			s.scanDigits()
		} else {
			s.unread(2)
		}
	} else {
		s.unread(1)
	}
}

// scanDigits consumes a contiguous series of digits.
func (s *Scanner) scanDigits() {
	for {
		if ch := s.read(); !isDigit(ch) {
			s.unread(1)
			return
		}
	}
}

// scanComment consumes all characters up to "*/", inclusive.
// This function assumes that the initial "/*" have just been consumed.
func (s *Scanner) scanComment() {
	for {
		ch0 := s.read()
		if ch0 == eof {
			return
		} else if ch0 == '*' {
			if ch1 := s.read(); ch1 == '/' {
				return
			}
			s.unread(1)
		}
	}
}

// scanHash consumes a hash token.
//
// It will return a hash token if the next code points are a name or valid
// escape, and a delim token otherwise.
func (s *Scanner) scanHash() token.Kind {
	if ch := s.read(); isName(ch) || s.peekEscape() {
		s.scanName()
		return token.Hash
	}
	s.unread(1)
	return token.Delim
}

// scanName consumes contiguous name code points and escaped code points.
// The current code point is the first one of the name.
func (s *Scanner) scanName() {
	s.unread(1)
	for {
		if ch := s.read(); isName(ch) {
			continue
		} else if s.peekEscape() {
			s.scanEscape()
		} else {
			s.unread(1)
			return
		}
	}
}

// scanIdent consumes an ident-like token.
// This function can return an ident, function, url, or bad-url.
func (s *Scanner) scanIdent() token.Kind {
	start := s.pos()
	s.scanName()
	name := s.src[start:s.end()]

	ch := s.read()
	if ch != '(' {
		s.unread(1)
		return token.Ident
	}

	// A url( followed by a quote is a regular function, as in
	// url("foo"). Otherwise the url is consumed as a single token.
	if isURL(name) {
		i := s.end()
		for i < len(s.src) && isWhitespace(rune(s.src[i])) {
			i++
		}
		if i == len(s.src) || (s.src[i] != '"' && s.src[i] != '\'') {
			return s.scanURL()
		}
	}
	return token.Function
}

// scanURL consumes the contents of an unquoted url.
// This function assumes that the "url(" has just been consumed.
func (s *Scanner) scanURL() token.Kind {
	if ch := s.read(); isWhitespace(ch) {
		s.scanWhitespace()
	} else {
		s.unread(1)
	}

	for {
		ch := s.read()
		if ch == ')' || ch == eof {
			return token.URL
		} else if isWhitespace(ch) {
			s.scanWhitespace()
			if ch0 := s.read(); ch0 == ')' || ch0 == eof {
				return token.URL
			}
			s.scanBadURL()
			return token.BadURL
		} else if ch == '"' || ch == '\'' || ch == '(' || isNonPrintable(ch) {
			s.Errors = append(s.Errors, &Error{Message: fmt.Sprintf("invalid url code point: %c (%U)", ch, ch), Pos: s.pos()})
			s.scanBadURL()
			return token.BadURL
		} else if ch == '\\' {
			if s.peekEscape() {
				s.scanEscape()
			} else {
				s.Errors = append(s.Errors, &Error{Message: "unescaped \\ in url", Pos: s.pos()})
				s.scanBadURL()
				return token.BadURL
			}
		}
	}
}

// scanBadURL recovers the scanner from a malformed URL token.
// We simply consume all non-) and non-eof characters and escaped code points.
func (s *Scanner) scanBadURL() {
	for {
		ch := s.read()
		if ch == ')' || ch == eof {
			return
		} else if s.peekEscape() {
			s.scanEscape()
		}
	}
}

// scanEscape consumes an escaped code point.
// The current code point is the backslash.
func (s *Scanner) scanEscape() {
	ch := s.read()
	if !isHexDigit(ch) {
		return
	}
	for i := 0; i < 5; i++ {
		if next := s.read(); next == eof {
			return
		} else if isWhitespace(next) {
			return
		} else if !isHexDigit(next) {
			s.unread(1)
			return
		}
	}
	// A single whitespace after a full escape belongs to the escape.
	if next := s.read(); !isWhitespace(next) {
		s.unread(1)
	}
}

// peekEscape checks if the current and next code points are a valid escape.
func (s *Scanner) peekEscape() bool {
	// If the current code point is not a backslash then this is not an escape.
	if s.curr() != '\\' {
		return false
	}

	// If the next code point is a newline or EOF then this is not an escape.
	next := s.read()
	s.unread(1)
	return next != '\n' && next != eof
}

// peekIdent checks if the next code points are a valid identifier.
func (s *Scanner) peekIdent() bool {
	if s.curr() == '-' {
		ch := s.read()
		if ch == '-' || isNameStart(ch) {
			s.unread(1)
			return true
		}
		ok := s.peekEscape()
		s.unread(1)
		return ok
	} else if isNameStart(s.curr()) {
		return true
	} else if s.curr() == '\\' && s.peekEscape() {
		return true
	}
	return false
}

// peekNumber checks if the current code point starts a number.
// The current code point is not consumed.
func (s *Scanner) peekNumber() bool {
	ch := s.curr()
	if isDigit(ch) {
		return true
	}
	ch1, ch2 := s.read(), s.read()
	s.unread(2)
	if ch == '+' || ch == '-' {
		return isDigit(ch1) || (ch1 == '.' && isDigit(ch2))
	}
	if ch == '.' {
		return isDigit(ch1)
	}
	return false
}

// read reads the next rune from the source.
// This function will initially check for any characters that have been pushed
// back onto the lookahead buffer and return those.
func (s *Scanner) read() rune {
	// If we have runes on our internal lookahead buffer then return those.
	if s.bufn > 0 {
		s.bufi = ((s.bufi + 1) % len(s.buf))
		s.bufn--
		return s.buf[s.bufi]
	}

	// Otherwise decode from the source.
	ch, pos := eof, s.off
	if s.off < len(s.src) {
		var size int
		ch, size = utf8.DecodeRuneInString(s.src[s.off:])
		s.off += size
	}

	// Add to circular buffer.
	s.bufi = ((s.bufi + 1) % len(s.buf))
	s.buf[s.bufi] = ch
	s.bufpos[s.bufi] = pos
	return ch
}

// unread adds the previous n code points back onto the buffer.
func (s *Scanner) unread(n int) {
	for i := 0; i < n; i++ {
		s.bufi = ((s.bufi + len(s.buf) - 1) % len(s.buf))
		s.bufn++
	}
}

// curr reads the current code point.
func (s *Scanner) curr() rune {
	return s.buf[s.bufi]
}

// pos returns the offset of the current code point.
func (s *Scanner) pos() int {
	return s.bufpos[s.bufi]
}

// end returns the offset just past the current code point.
func (s *Scanner) end() int {
	if s.bufn > 0 {
		return s.bufpos[(s.bufi+1)%len(s.buf)]
	}
	return s.off
}

// isURL returns true if name is a case-insensitive "url".
func isURL(name string) bool {
	return len(name) == 3 &&
		(name[0]|0x20) == 'u' && (name[1]|0x20) == 'r' && (name[2]|0x20) == 'l'
}

// isWhitespace returns true if the rune is a space, tab, or newline.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// isLetter returns true if the rune is a letter.
func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9')
}

// isHexDigit returns true if the rune is a hex digit.
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isNonASCII returns true if the rune is greater than U+0080.
func isNonASCII(ch rune) bool {
	return ch >= '\u0080'
}

// isNameStart returns true if the rune can start a name.
func isNameStart(ch rune) bool {
	return isLetter(ch) || isNonASCII(ch) || ch == '_'
}

// isName returns true if the character is a name code point.
func isName(ch rune) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}

// isNonPrintable returns true if the character is non-printable.
func isNonPrintable(ch rune) bool {
	return (ch >= '\u0000' && ch <= '\u0008') || ch == '\u000B' || (ch >= '\u000E' && ch <= '\u001F') || ch == '\u007F'
}

// Error represents a recoverable tokenization error.
type Error struct {
	Message string
	Pos     int
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return e.Message
}
