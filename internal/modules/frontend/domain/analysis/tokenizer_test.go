package analysis

import (
	"testing"
)

func tokenize(t *testing.T, src string) ([]Token, []Diagnostic) {
	t.Helper()
	return NewSimpleTokenizer().Tokenize(NewSourceCode(src, "test.ace"))
}

func kindsOf(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind()
	}
	return kinds
}

func TestTokenize_EmptySource(t *testing.T) {
	tokens, diags := tokenize(t, "")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if len(tokens) != 1 || !tokens[0].Is(EOF) {
		t.Fatalf("expected a single EOF token, got %v", tokens)
	}
	if tokens[0].Span().Start.Line() != 1 || tokens[0].Span().Start.Column() != 1 {
		t.Errorf("EOF position = %s, want 1:1", tokens[0].Span().Start)
	}
}

func TestTokenize_FunctionHeader(t *testing.T) {
	tokens, diags := tokenize(t, "fn add(a: Int, b: Int) -> Int { return a + b; }")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := []TokenKind{
		KwFn, Ident, LParen, Ident, Colon, Ident, Comma,
		Ident, Colon, Ident, RParen, Arrow, Ident, LBrace,
		KwReturn, Ident, Plus, Ident, Semicolon, RBrace, EOF,
	}
	got := kindsOf(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTokenize_MaximalMunch(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenKind
	}{
		{"==", []TokenKind{Equal, EOF}},
		{"= =", []TokenKind{Assign, Assign, EOF}},
		{"<=>", []TokenKind{LessEq, Greater, EOF}},
		{"!=!", []TokenKind{NotEqual, Bang, EOF}},
		{"->-", []TokenKind{Arrow, Minus, EOF}},
		{"&&&", []TokenKind{AndAnd, Amp, EOF}},
		{"a||b", []TokenKind{Ident, OrOr, Ident, EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens, diags := tokenize(t, tt.src)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			got := kindsOf(tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenize_Keywords(t *testing.T) {
	for _, word := range ReservedWords() {
		tokens, _ := tokenize(t, word)
		if tokens[0].Is(Ident) {
			t.Errorf("reserved word %q lexed as identifier", word)
		}
	}
	tokens, _ := tokenize(t, "fnord letter")
	if !tokens[0].Is(Ident) || !tokens[1].Is(Ident) {
		t.Errorf("keyword prefixes must lex as identifiers, got %v", kindsOf(tokens))
	}
}

func TestTokenize_NumericLiterals(t *testing.T) {
	tests := []struct {
		src    string
		kind   TokenKind
		lexeme string
	}{
		{"42", IntLiteral, "42"},
		{"0x1F", IntLiteral, "0x1F"},
		{"0b101", IntLiteral, "0b101"},
		{"7i32", IntLiteral, "7i32"},
		{"010", IntLiteral, "010"},
		{"09", IntLiteral, "09"},
		{"128i8", IntLiteral, "128i8"},
		{"0xFFi8", IntLiteral, "0xFFi8"},
		{"18446744073709551615", IntLiteral, "18446744073709551615"},
		{"3.25", FloatLiteral, "3.25"},
		{"1e10", FloatLiteral, "1e10"},
		{"2.5e-3", FloatLiteral, "2.5e-3"},
		{"1.5f32", FloatLiteral, "1.5f32"},
		{"2f64", FloatLiteral, "2f64"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens, diags := tokenize(t, tt.src)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if tokens[0].Kind() != tt.kind || tokens[0].Lexeme() != tt.lexeme {
				t.Errorf("got %s %q, want %s %q", tokens[0].Kind(), tokens[0].Lexeme(), tt.kind, tt.lexeme)
			}
		})
	}
}

func TestTokenize_MalformedLiteralsRecover(t *testing.T) {
	tests := []struct {
		src         string
		placeholder TokenKind
	}{
		{"1e+", FloatLiteral},
		{"0x", IntLiteral},
		{"0b12", IntLiteral},
		{"12abc", IntLiteral},
		{"1.5i32", FloatLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens, diags := tokenize(t, tt.src+" ;")
			if len(diags) != 1 {
				t.Fatalf("expected 1 diagnostic, got %v", diags)
			}
			if diags[0].Kind() != LexError || diags[0].Code() != CodeMalformedNumber {
				t.Errorf("diagnostic = %s", diags[0])
			}
			if tokens[0].Kind() != tt.placeholder {
				t.Errorf("placeholder kind = %s, want %s", tokens[0].Kind(), tt.placeholder)
			}
			if !tokens[1].Is(Semicolon) || !tokens[2].Is(EOF) {
				t.Errorf("lexing did not continue after malformed literal: %v", kindsOf(tokens))
			}
		})
	}
}

func TestTokenize_StringEscapes(t *testing.T) {
	tokens, diags := tokenize(t, `"a\n\t\"b\\\x41\0"`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "a\n\t\"b\\A\x00"
	if tokens[0].Lexeme() != want {
		t.Errorf("lexeme = %q, want %q", tokens[0].Lexeme(), want)
	}
}

func TestTokenize_BadEscapeAndUnterminatedString(t *testing.T) {
	tokens, diags := tokenize(t, `"a\qb"`)
	if len(diags) != 1 || diags[0].Code() != CodeBadEscape {
		t.Fatalf("expected one bad escape diagnostic, got %v", diags)
	}
	if tokens[0].Lexeme() != "ab" {
		t.Errorf("lexeme = %q, want %q", tokens[0].Lexeme(), "ab")
	}

	tokens, diags = tokenize(t, "\"open\nlet")
	if len(diags) != 1 || diags[0].Code() != CodeUnterminatedString {
		t.Fatalf("expected one unterminated string diagnostic, got %v", diags)
	}
	if !tokens[0].Is(StringLiteral) || !tokens[1].Is(KwLet) {
		t.Errorf("got %v", kindsOf(tokens))
	}
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	tokens, diags := tokenize(t, "a @ b")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if diags[0].Kind() != LexError || diags[0].Position().Column() != 3 {
		t.Errorf("diagnostic = %s", diags[0])
	}
	got := kindsOf(tokens)
	want := []TokenKind{Ident, Illegal, Ident, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokens = %v, want %v", got, want)
		}
	}
}

func TestTokenize_Comments(t *testing.T) {
	tokens, diags := tokenize(t, "a // line\n/* block\n comment */ b")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(tokens) != 3 {
		t.Fatalf("got %v", kindsOf(tokens))
	}
	if tokens[1].Span().Start.Line() != 3 {
		t.Errorf("b line = %d, want 3", tokens[1].Span().Start.Line())
	}

	_, diags = tokenize(t, "/* never closed")
	if len(diags) != 1 || diags[0].Code() != CodeUnterminatedBlock {
		t.Errorf("expected unterminated comment diagnostic, got %v", diags)
	}
}

func TestTokenize_ExactlyOneEOF(t *testing.T) {
	for _, src := range []string{"", "x", "\"unterminated", "@@@", "/*"} {
		tokens, _ := tokenize(t, src)
		eofs := 0
		for _, tok := range tokens {
			if tok.Is(EOF) {
				eofs++
			}
		}
		if eofs != 1 || !tokens[len(tokens)-1].Is(EOF) {
			t.Errorf("%q: expected exactly one trailing EOF, got %v", src, kindsOf(tokens))
		}
	}
}

func TestTokenize_IdentifierNormalization(t *testing.T) {
	// "é" precomposed vs "e" + combining acute accent
	tokens, diags := tokenize(t, "caf\u00e9 cafe\u0301")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Lexeme() != tokens[1].Lexeme() {
		t.Errorf("identifiers not normalized: %q vs %q", tokens[0].Lexeme(), tokens[1].Lexeme())
	}
}

func TestLexer_LazyIteration(t *testing.T) {
	lexer := NewLexer(NewSourceCode("a b c", "test.ace"))
	first := lexer.Next()
	if first.Lexeme() != "a" {
		t.Fatalf("first token = %s", first)
	}
	count := 0
	for range lexer.All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("iteration did not stop early")
	}
	if next := lexer.Next(); next.Lexeme() != "c" {
		t.Errorf("lexer did not resume, got %s", next)
	}
}

func TestSplitNumericSuffix(t *testing.T) {
	tests := []struct{ in, digits, suffix string }{
		{"42", "42", ""},
		{"42i8", "42", "i8"},
		{"1.5f32", "1.5", "f32"},
		{"0xffi16", "0xff", "i16"},
		{"0xff", "0xff", ""},
	}
	for _, tt := range tests {
		d, s := SplitNumericSuffix(tt.in)
		if d != tt.digits || s != tt.suffix {
			t.Errorf("SplitNumericSuffix(%q) = (%q, %q), want (%q, %q)", tt.in, d, s, tt.digits, tt.suffix)
		}
	}
}
