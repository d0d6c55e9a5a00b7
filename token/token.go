package token

// Kind represents the kind of a lexical token.
type Kind int

const (
	// Special tokens
	EOF Kind = iota
	Comment

	// CSS Syntax Level 3 tokens
	Ident
	Function
	AtKeyword
	Hash
	String
	BadString
	URL
	BadURL
	Delim
	Number
	Percentage
	Dimension
	Whitespace
	CDO
	CDC
	Colon
	Semicolon
	Comma
	LBrack
	RBrack
	LParen
	RParen
	LBrace
	RBrace
)

var kinds = [...]string{
	EOF:        "EOF",
	Comment:    "comment",
	Ident:      "ident",
	Function:   "function",
	AtKeyword:  "at-keyword",
	Hash:       "hash",
	String:     "string",
	BadString:  "bad-string",
	URL:        "url",
	BadURL:     "bad-url",
	Delim:      "delim",
	Number:     "number",
	Percentage: "percentage",
	Dimension:  "dimension",
	Whitespace: "whitespace",
	CDO:        "CDO",
	CDC:        "CDC",
	Colon:      "colon",
	Semicolon:  "semicolon",
	Comma:      "comma",
	LBrack:     "[",
	RBrack:     "]",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k >= 0 && k < Kind(len(kinds)) {
		return kinds[k]
	}
	return ""
}

// Closer returns the kind that closes a block opened by k.
// Returns false if k does not open a block.
func (k Kind) Closer() (Kind, bool) {
	switch k {
	case Function, LParen:
		return RParen, true
	case LBrack:
		return RBrack, true
	case LBrace:
		return RBrace, true
	}
	return EOF, false
}

// Token is a kind/start/end triple produced by a tokenizer.
// Start and End are byte offsets into the tokenized text.
type Token struct {
	Kind  Kind
	Start int
	End   int
}

// Len returns the number of bytes covered by the token.
func (t Token) Len() int { return t.End - t.Start }
