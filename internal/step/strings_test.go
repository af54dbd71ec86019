package step

import "testing"

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Basic Wall", "Basic Wall"},
		{"escaped backslash", `C:\\models`, `C:\models`},
		{"latin-1 via S", `Gr\S\|n`, "Grün"},
		{"x hex", `Stra\X\DFe`, "Straße"},
		{"x2 utf-16", `\X2\00C400D6\X0\rea`, "ÄÖrea"},
		{"x4 utf-32", `\X4\0001F600\X0\`, "😀"},
		{"code page switch", `\PE\\S\P`, "а"},
		{"lone backslash", `a\b`, `a\b`},
		{"utf-8 passthrough", "Fenêtre", "Fenêtre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeString([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodeString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeString(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeString_Errors(t *testing.T) {
	for _, raw := range []string{`\X2\00C4`, `\X2\00C\X0\`, `\PZ\`} {
		if _, err := DecodeString([]byte(raw)); err == nil {
			t.Errorf("DecodeString(%q) expected error", raw)
		}
	}
}

func TestEncodeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"O'Neil", "O''Neil"},
		{`a\b`, `a\\b`},
		{"Größe", `Gr\X2\00F600DF\X0\e`},
	}
	for _, tt := range tests {
		got := EncodeString(tt.in)
		if got != tt.want {
			t.Errorf("EncodeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
		back, err := DecodeString([]byte(unquote(got)))
		if err != nil || back != tt.in {
			t.Errorf("DecodeString(EncodeString(%q)) = %q, %v", tt.in, back, err)
		}
	}
}

// unquote collapses doubled quotes the way the lexer does before decoding.
func unquote(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		if s[i] == '\'' && i+1 < len(s) && s[i+1] == '\'' {
			i++
		}
	}
	return string(out)
}
