package step

import (
	"fmt"
	"io"
	"strings"
)

const (
	magicStart = "ISO-10303-21"
	magicEnd   = "END-ISO-10303-21"
)

// Parser builds a File from a token stream.
type Parser struct {
	lexer *Lexer
	tok   Token
}

// Parse reads an entire exchange file.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading exchange file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses an exchange file held in memory.
func ParseBytes(data []byte) (*File, error) {
	p := &Parser{lexer: NewLexer(data)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseFile()
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Pos: p.tok.Pos, Line: p.tok.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if p.tok.Type != tt {
		return Token{}, p.errorf("expected %s, found %s", tt, p.describe())
	}
	tok := p.tok
	return tok, p.advance()
}

func (p *Parser) expectKeyword(word string) error {
	if p.tok.Type != TokenKeyword || !strings.EqualFold(p.tok.Text, word) {
		return p.errorf("expected %s, found %s", word, p.describe())
	}
	return p.advance()
}

func (p *Parser) describe() string {
	switch p.tok.Type {
	case TokenKeyword:
		return fmt.Sprintf("keyword %s", p.tok.Text)
	case TokenInstance:
		return fmt.Sprintf("#%d", p.tok.Int)
	case TokenEOF:
		return "end of file"
	}
	return p.tok.Type.String()
}

func (p *Parser) parseFile() (*File, error) {
	if err := p.expectKeyword(magicStart); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	f := NewFile()
	f.Header = Header{}
	if err := p.parseHeader(f); err != nil {
		return nil, err
	}

	sections := 0
	for p.tok.Type == TokenKeyword && strings.EqualFold(p.tok.Text, "DATA") {
		if err := p.parseData(f); err != nil {
			return nil, err
		}
		sections++
	}
	if sections == 0 {
		return nil, p.errorf("missing DATA section")
	}

	if err := p.expectKeyword(magicEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Parser) parseHeader(f *File) error {
	if err := p.expectKeyword("HEADER"); err != nil {
		return err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	sawSchema := false
	for !(p.tok.Type == TokenKeyword && strings.EqualFold(p.tok.Text, "ENDSEC")) {
		if p.tok.Type != TokenKeyword {
			return p.errorf("expected header entity, found %s", p.describe())
		}
		part, err := p.parseRecord()
		if err != nil {
			return err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return err
		}

		switch part.Type {
		case "FILE_DESCRIPTION":
			f.Header.Description = attrAt(part, 0).Strings()
			f.Header.ImplementationLevel, _ = attrAt(part, 1).AsString()
		case "FILE_NAME":
			f.Header.Name, _ = attrAt(part, 0).AsString()
			f.Header.TimeStamp, _ = attrAt(part, 1).AsString()
			f.Header.Author = attrAt(part, 2).Strings()
			f.Header.Organization = attrAt(part, 3).Strings()
			f.Header.PreprocessorVersion, _ = attrAt(part, 4).AsString()
			f.Header.OriginatingSystem, _ = attrAt(part, 5).AsString()
			f.Header.Authorization, _ = attrAt(part, 6).AsString()
		case "FILE_SCHEMA":
			f.Header.Schemas = attrAt(part, 0).Strings()
			sawSchema = true
		default:
			f.Header.Extra = append(f.Header.Extra, part)
		}
	}
	if err := p.advance(); err != nil { // ENDSEC
		return err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}
	if !sawSchema {
		return p.errorf("header has no FILE_SCHEMA")
	}
	return nil
}

func attrAt(part Part, i int) Value {
	if i < len(part.Attrs) {
		return part.Attrs[i]
	}
	return Null()
}

func (p *Parser) parseData(f *File) error {
	if err := p.advance(); err != nil { // DATA
		return err
	}
	// DATA may carry a parameter list naming the section (edition 3).
	if p.tok.Type == TokenLParen {
		if _, err := p.parseList(); err != nil {
			return err
		}
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	for {
		switch p.tok.Type {
		case TokenInstance:
			inst, err := p.parseInstance()
			if err != nil {
				return err
			}
			if _, dup := f.instances[inst.ID]; dup {
				return p.errorf("duplicate instance #%d", inst.ID)
			}
			f.insert(inst)
		case TokenKeyword:
			if !strings.EqualFold(p.tok.Text, "ENDSEC") {
				return p.errorf("expected instance or ENDSEC, found %s", p.describe())
			}
			if err := p.advance(); err != nil {
				return err
			}
			_, err := p.expect(TokenSemicolon)
			return err
		case TokenEOF:
			return p.errorf("unexpected end of file in DATA section")
		default:
			return p.errorf("expected instance or ENDSEC, found %s", p.describe())
		}
	}
}

func (p *Parser) parseInstance() (*Instance, error) {
	nameTok, err := p.expect(TokenInstance)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}

	inst := &Instance{ID: int(nameTok.Int)}
	switch p.tok.Type {
	case TokenKeyword:
		part, err := p.parseRecord()
		if err != nil {
			return nil, err
		}
		inst.Type = part.Type
		inst.Attrs = part.Attrs
	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.tok.Type == TokenKeyword {
			part, err := p.parseRecord()
			if err != nil {
				return nil, err
			}
			inst.Parts = append(inst.Parts, part)
		}
		if len(inst.Parts) == 0 {
			return nil, p.errorf("empty complex instance #%d", inst.ID)
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
	default:
		return nil, p.errorf("expected entity record for #%d, found %s", inst.ID, p.describe())
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return inst, nil
}

// parseRecord parses KEYWORD(params).
func (p *Parser) parseRecord() (Part, error) {
	kw, err := p.expect(TokenKeyword)
	if err != nil {
		return Part{}, err
	}
	if p.tok.Type != TokenLParen {
		return Part{}, p.errorf("expected '(' after %s, found %s", kw.Text, p.describe())
	}
	attrs, err := p.parseList()
	if err != nil {
		return Part{}, err
	}
	return Part{Type: strings.ToUpper(kw.Text), Attrs: attrs}, nil
}

// parseList parses "(" [param {"," param}] ")".
func (p *Parser) parseList() ([]Value, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	values := []Value{}
	if p.tok.Type == TokenRParen {
		return values, p.advance()
	}
	for {
		v, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		switch p.tok.Type {
		case TokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenRParen:
			return values, p.advance()
		default:
			return nil, p.errorf("expected ',' or ')', found %s", p.describe())
		}
	}
}

func (p *Parser) parseParam() (Value, error) {
	tok := p.tok
	switch tok.Type {
	case TokenNull:
		return Null(), p.advance()
	case TokenDerived:
		return Derived(), p.advance()
	case TokenInteger:
		return Integer(tok.Int), p.advance()
	case TokenReal:
		return Real(tok.Real), p.advance()
	case TokenString:
		return String(tok.Text), p.advance()
	case TokenEnum:
		return Enum(tok.Text), p.advance()
	case TokenBinary:
		return Value{Kind: KindBinary, Str: tok.Text}, p.advance()
	case TokenInstance:
		return Ref(int(tok.Int)), p.advance()
	case TokenLParen:
		items, err := p.parseList()
		if err != nil {
			return Value{}, err
		}
		return List(items...), nil
	case TokenKeyword:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		items, err := p.parseList()
		if err != nil {
			return Value{}, err
		}
		if len(items) != 1 {
			return Value{}, &SyntaxError{Pos: tok.Pos, Line: tok.Line,
				Msg: fmt.Sprintf("typed parameter %s takes one value, got %d", tok.Text, len(items))}
		}
		return Typed(tok.Text, items[0]), nil
	case TokenEOF:
		return Value{}, p.errorf("unexpected end of file in parameter list")
	}
	return Value{}, p.errorf("unexpected %s in parameter list", p.describe())
}
