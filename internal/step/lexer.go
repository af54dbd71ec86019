package step

import (
	"fmt"
	"strconv"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF       TokenType = iota
	TokenKeyword             // HEADER, DATA, IFCWALL, END-ISO-10303-21
	TokenInstance            // #12
	TokenInteger             // 123
	TokenReal                // 3.14, 1.E-5
	TokenString              // 'text' (decoded)
	TokenEnum                // .T.
	TokenBinary              // "0FF"
	TokenNull                // $
	TokenDerived             // *
	TokenLParen              // (
	TokenRParen              // )
	TokenComma               // ,
	TokenEquals              // =
	TokenSemicolon           // ;
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "end of file",
	TokenKeyword:   "keyword",
	TokenInstance:  "instance name",
	TokenInteger:   "integer",
	TokenReal:      "real",
	TokenString:    "string",
	TokenEnum:      "enumeration",
	TokenBinary:    "binary",
	TokenNull:      "'$'",
	TokenDerived:   "'*'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenComma:     "','",
	TokenEquals:    "'='",
	TokenSemicolon: "';'",
}

// String returns a readable token type name.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type TokenType
	Text string // keyword, enum name, decoded string, binary digits, number literal
	Int  int64  // integer value and instance number
	Real float64
	Pos  int // byte offset in the input
	Line int
}

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Pos  int
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d (offset %d): %s", e.Line, e.Pos, e.Msg)
}

// Lexer performs lexical analysis of an exchange file held in memory.
type Lexer struct {
	data []byte
	pos  int
	line int
}

// NewLexer creates a new lexer
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data, line: 1}
}

func (l *Lexer) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{Pos: pos, Line: l.line, Msg: fmt.Sprintf(format, args...)}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF, Pos: l.pos, Line: l.line}, nil
	}

	start := l.pos
	b := l.data[l.pos]
	tok := Token{Pos: start, Line: l.line}

	switch b {
	case '(':
		l.pos++
		tok.Type = TokenLParen
		return tok, nil
	case ')':
		l.pos++
		tok.Type = TokenRParen
		return tok, nil
	case ',':
		l.pos++
		tok.Type = TokenComma
		return tok, nil
	case '=':
		l.pos++
		tok.Type = TokenEquals
		return tok, nil
	case ';':
		l.pos++
		tok.Type = TokenSemicolon
		return tok, nil
	case '$':
		l.pos++
		tok.Type = TokenNull
		return tok, nil
	case '*':
		l.pos++
		tok.Type = TokenDerived
		return tok, nil
	case '#':
		return l.readInstanceName()
	case '\'':
		return l.readString()
	case '"':
		return l.readBinary()
	case '.':
		if l.pos+1 < len(l.data) && isUpper(l.data[l.pos+1]) {
			return l.readEnum()
		}
		return l.readNumber()
	}

	if isDigit(b) || b == '-' || b == '+' {
		return l.readNumber()
	}
	if isUpper(b) || isLower(b) || b == '!' {
		return l.readKeyword()
	}

	return Token{}, l.errorf(start, "unexpected character %q", b)
}

func (l *Lexer) skipSpaceAndComments() error {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		switch {
		case b == '\n':
			l.line++
			l.pos++
		case b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v':
			l.pos++
		case b == '/' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '*':
			start := l.pos
			l.pos += 2
			closed := false
			for l.pos+1 < len(l.data) {
				if l.data[l.pos] == '\n' {
					l.line++
				}
				if l.data[l.pos] == '*' && l.data[l.pos+1] == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				return l.errorf(start, "unterminated comment")
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) readInstanceName() (Token, error) {
	start := l.pos
	l.pos++ // '#'
	digits := l.pos
	for l.pos < len(l.data) && isDigit(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == digits {
		return Token{}, l.errorf(start, "instance name without digits")
	}
	n, err := strconv.ParseInt(string(l.data[digits:l.pos]), 10, 64)
	if err != nil {
		return Token{}, l.errorf(start, "invalid instance name: %v", err)
	}
	return Token{Type: TokenInstance, Int: n, Pos: start, Line: l.line}, nil
}

func (l *Lexer) readString() (Token, error) {
	start := l.pos
	line := l.line
	l.pos++ // opening quote
	var raw []byte
	for {
		if l.pos >= len(l.data) {
			return Token{}, &SyntaxError{Pos: start, Line: line, Msg: "unterminated string"}
		}
		b := l.data[l.pos]
		if b == '\'' {
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '\'' {
				raw = append(raw, '\'')
				l.pos += 2
				continue
			}
			l.pos++
			break
		}
		if b == '\n' {
			l.line++
			l.pos++
			continue // line breaks inside strings carry no content
		}
		if b == '\r' {
			l.pos++
			continue
		}
		raw = append(raw, b)
		l.pos++
	}

	text, err := DecodeString(raw)
	if err != nil {
		return Token{}, &SyntaxError{Pos: start, Line: line, Msg: err.Error()}
	}
	return Token{Type: TokenString, Text: text, Pos: start, Line: line}, nil
}

func (l *Lexer) readBinary() (Token, error) {
	start := l.pos
	l.pos++
	digits := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '"' {
		if !isHex(l.data[l.pos]) {
			return Token{}, l.errorf(l.pos, "invalid binary digit %q", l.data[l.pos])
		}
		l.pos++
	}
	if l.pos >= len(l.data) {
		return Token{}, l.errorf(start, "unterminated binary")
	}
	text := string(l.data[digits:l.pos])
	l.pos++
	return Token{Type: TokenBinary, Text: text, Pos: start, Line: l.line}, nil
}

func (l *Lexer) readEnum() (Token, error) {
	start := l.pos
	l.pos++ // leading dot
	name := l.pos
	for l.pos < len(l.data) && isKeywordChar(l.data[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.data) || l.data[l.pos] != '.' {
		return Token{}, l.errorf(start, "unterminated enumeration")
	}
	text := string(l.data[name:l.pos])
	l.pos++
	return Token{Type: TokenEnum, Text: text, Pos: start, Line: l.line}, nil
}

func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	if l.data[l.pos] == '+' || l.data[l.pos] == '-' {
		l.pos++
	}
	isReal := false
scan:
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		switch {
		case isDigit(b):
			l.pos++
		case b == '.':
			isReal = true
			l.pos++
		case b == 'E' || b == 'e':
			isReal = true
			l.pos++
			if l.pos < len(l.data) && (l.data[l.pos] == '+' || l.data[l.pos] == '-') {
				l.pos++
			}
		default:
			break scan
		}
	}
	text := string(l.data[start:l.pos])
	if isReal {
		f, err := parseReal(text)
		if err != nil {
			return Token{}, l.errorf(start, "invalid real %q", text)
		}
		return Token{Type: TokenReal, Text: text, Real: f, Pos: start, Line: l.line}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, l.errorf(start, "invalid integer %q", text)
	}
	return Token{Type: TokenInteger, Text: text, Int: n, Pos: start, Line: l.line}, nil
}

// parseReal accepts the exchange-file forms "1.", "1.E5" and ".5" that
// strconv does not always take directly.
func parseReal(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err == nil {
		return f, nil
	}
	fixed := []byte{}
	for i := 0; i < len(text); i++ {
		c := text[i]
		fixed = append(fixed, c)
		if c == '.' && (i+1 == len(text) || text[i+1] == 'E' || text[i+1] == 'e') {
			fixed = append(fixed, '0')
		}
	}
	return strconv.ParseFloat(string(fixed), 64)
}

func (l *Lexer) readKeyword() (Token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.data) && (isKeywordChar(l.data[l.pos]) || l.data[l.pos] == '-') {
		l.pos++
	}
	return Token{Type: TokenKeyword, Text: string(l.data[start:l.pos]), Pos: start, Line: l.line}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

func isKeywordChar(b byte) bool {
	return isUpper(b) || isLower(b) || isDigit(b) || b == '_'
}
