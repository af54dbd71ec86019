package step

import "testing"

func TestLexer_NextToken(t *testing.T) {
	input := `#12=IFCWALL('it''s',.T.,-1.5E2,42,$,*,(#3),"1A"); /* note */ END-ISO-10303-21;`
	want := []struct {
		typ  TokenType
		text string
	}{
		{TokenInstance, ""},
		{TokenEquals, ""},
		{TokenKeyword, "IFCWALL"},
		{TokenLParen, ""},
		{TokenString, "it's"},
		{TokenComma, ""},
		{TokenEnum, "T"},
		{TokenComma, ""},
		{TokenReal, "-1.5E2"},
		{TokenComma, ""},
		{TokenInteger, "42"},
		{TokenComma, ""},
		{TokenNull, ""},
		{TokenComma, ""},
		{TokenDerived, ""},
		{TokenComma, ""},
		{TokenLParen, ""},
		{TokenInstance, ""},
		{TokenRParen, ""},
		{TokenComma, ""},
		{TokenBinary, "1A"},
		{TokenRParen, ""},
		{TokenSemicolon, ""},
		{TokenKeyword, "END-ISO-10303-21"},
		{TokenSemicolon, ""},
		{TokenEOF, ""},
	}

	lx := NewLexer([]byte(input))
	for i, w := range want {
		tok, err := lx.NextToken()
		if err != nil {
			t.Fatalf("token %d: error = %v", i, err)
		}
		if tok.Type != w.typ {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, w.typ)
		}
		if w.text != "" && tok.Text != w.text {
			t.Errorf("token %d: text = %q, want %q", i, tok.Text, w.text)
		}
	}
}

func TestLexer_LineTracking(t *testing.T) {
	lx := NewLexer([]byte("A\n/* two\nlines */\n@"))
	if _, err := lx.NextToken(); err != nil {
		t.Fatal(err)
	}
	_, err := lx.NextToken()
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if se.Line != 4 {
		t.Errorf("Line = %d, want 4", se.Line)
	}
}

func TestParseReal(t *testing.T) {
	tests := map[string]float64{
		"1.":     1,
		"1.E5":   1e5,
		"-0.25":  -0.25,
		"2.5E-3": 0.0025,
	}
	for in, want := range tests {
		got, err := parseReal(in)
		if err != nil || got != want {
			t.Errorf("parseReal(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
