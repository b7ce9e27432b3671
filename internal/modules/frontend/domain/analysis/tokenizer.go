package analysis

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer 词法分析器接口
type Tokenizer interface {
	// Tokenize 将源代码转换为Token序列，最后一个Token总是EOF
	Tokenize(source SourceCode) ([]Token, []Diagnostic)
}

// SimpleTokenizer 基于Lexer的词法分析器实现
type SimpleTokenizer struct{}

// NewSimpleTokenizer 创建新的简单词法分析器
func NewSimpleTokenizer() Tokenizer {
	return &SimpleTokenizer{}
}

// Tokenize 实现Tokenizer接口
func (t *SimpleTokenizer) Tokenize(source SourceCode) ([]Token, []Diagnostic) {
	lexer := NewLexer(source)
	var tokens []Token
	for tok := range lexer.All() {
		tokens = append(tokens, tok)
	}
	return tokens, lexer.Diagnostics()
}

// Lexer 按需产生Token的词法分析器。一个Lexer只能遍历一次
type Lexer struct {
	source SourceCode
	text   string
	offset int
	line   int
	column int
	done   bool

	diagnostics []Diagnostic
}

// NewLexer 创建新的Lexer
func NewLexer(source SourceCode) *Lexer {
	return &Lexer{
		source: source,
		text:   source.Content(),
		line:   1,
		column: 1,
	}
}

// Diagnostics 返回目前为止产生的词法诊断
func (l *Lexer) Diagnostics() []Diagnostic {
	return l.diagnostics
}

// All 返回惰性Token序列，以唯一的EOF结束
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for !l.done {
			tok := l.Next()
			if !yield(tok) {
				return
			}
		}
	}
}

// Next 返回下一个Token。EOF之后继续调用仍返回EOF
func (l *Lexer) Next() Token {
	l.skipTrivia()
	start := l.pos()

	if l.offset >= len(l.text) {
		l.done = true
		return NewToken(EOF, "", NewSpan(start, start))
	}

	r := l.peek()
	switch {
	case r == '"':
		return l.lexString(start)
	case isDigit(r):
		return l.lexNumber(start)
	case r == '_' || unicode.IsLetter(r):
		return l.lexIdentifier(start)
	}

	if kind, width := matchOperator(l.text[l.offset:]); width > 0 {
		lexeme := l.text[l.offset : l.offset+width]
		for i := 0; i < width; i++ {
			l.advance()
		}
		return NewToken(kind, lexeme, l.spanFrom(start))
	}

	l.advance()
	span := l.spanFrom(start)
	msg := fmt.Sprintf("unexpected character '%c'", r)
	if r == '|' {
		msg += ", did you mean '||'?"
	}
	l.report(CodeUnexpectedChar, msg, span)
	return NewToken(Illegal, string(r), span)
}

// skipTrivia 跳过空白和注释
func (l *Lexer) skipTrivia() {
	for l.offset < len(l.text) {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case strings.HasPrefix(l.text[l.offset:], "//"):
			for l.offset < len(l.text) && l.peek() != '\n' {
				l.advance()
			}
		case strings.HasPrefix(l.text[l.offset:], "/*"):
			start := l.pos()
			l.advance()
			l.advance()
			closed := false
			for l.offset < len(l.text) {
				if strings.HasPrefix(l.text[l.offset:], "*/") {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				l.report(CodeUnterminatedBlock, "unterminated block comment", l.spanFrom(start))
			}
		default:
			return
		}
	}
}

// lexIdentifier 识别标识符或关键字，标识符按NFC规范化
func (l *Lexer) lexIdentifier(start Position) Token {
	begin := l.offset
	for l.offset < len(l.text) {
		r := l.peek()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) {
			break
		}
		l.advance()
	}
	word := norm.NFC.String(l.text[begin:l.offset])
	span := l.spanFrom(start)
	if kind, ok := LookupKeyword(word); ok {
		return NewToken(kind, word, span)
	}
	return NewToken(Ident, word, span)
}

// lexNumber 识别整数和浮点数字面量，格式错误时产生占位Token
func (l *Lexer) lexNumber(start Position) Token {
	begin := l.offset
	kind := IntLiteral
	malformed := ""
	prefixed := false

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X' || l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		prefixed = true
		binary := l.peekAt(1) == 'b' || l.peekAt(1) == 'B'
		l.advance()
		l.advance()
		digits := 0
		for l.offset < len(l.text) {
			r := l.peek()
			if binary && (r == '0' || r == '1') || !binary && isHexDigit(r) {
				l.advance()
				digits++
				continue
			}
			if binary && isDigit(r) {
				malformed = fmt.Sprintf("invalid digit '%c' in binary literal", r)
				l.advance()
				continue
			}
			break
		}
		if digits == 0 && malformed == "" {
			malformed = "numeric literal prefix has no digits"
		}
	} else {
		l.consumeDigits()
		if l.peek() == '.' && isDigit(l.peekAt(1)) {
			kind = FloatLiteral
			l.advance()
			l.consumeDigits()
		}
		if r := l.peek(); r == 'e' || r == 'E' {
			kind = FloatLiteral
			l.advance()
			if s := l.peek(); s == '+' || s == '-' {
				l.advance()
			}
			if !isDigit(l.peek()) {
				malformed = "exponent has no digits"
			}
			l.consumeDigits()
		}
	}

	if r := l.peek(); r == '_' || unicode.IsLetter(r) {
		suffixStart := l.offset
		for l.offset < len(l.text) && (l.peek() == '_' || unicode.IsLetter(l.peek()) || isDigit(l.peek())) {
			l.advance()
		}
		suffix := l.text[suffixStart:l.offset]
		switch {
		case isIntSuffix(suffix) && kind == IntLiteral:
		case isFloatSuffix(suffix) && !prefixed:
			kind = FloatLiteral
		default:
			if malformed == "" {
				malformed = fmt.Sprintf("invalid suffix '%s' on numeric literal", suffix)
			}
		}
	}

	span := l.spanFrom(start)
	if malformed != "" {
		l.report(CodeMalformedNumber, malformed, span)
		if kind == FloatLiteral {
			return NewToken(FloatLiteral, "0.0", span)
		}
		return NewToken(IntLiteral, "0", span)
	}
	return NewToken(kind, l.text[begin:l.offset], span)
}

// lexString 识别字符串字面量，Token词素为转义处理后的内容
func (l *Lexer) lexString(start Position) Token {
	l.advance()
	var value strings.Builder

	for {
		if l.offset >= len(l.text) || l.peek() == '\n' {
			span := l.spanFrom(start)
			l.report(CodeUnterminatedString, "unterminated string literal", span)
			return NewToken(StringLiteral, value.String(), span)
		}
		r := l.peek()
		if r == '"' {
			l.advance()
			break
		}
		if r != '\\' {
			value.WriteRune(r)
			l.advance()
			continue
		}

		escStart := l.pos()
		l.advance()
		if l.offset >= len(l.text) || l.peek() == '\n' {
			continue
		}
		e := l.peek()
		l.advance()
		switch e {
		case 'n':
			value.WriteByte('\n')
		case 't':
			value.WriteByte('\t')
		case 'r':
			value.WriteByte('\r')
		case '0':
			value.WriteByte(0)
		case '\\':
			value.WriteByte('\\')
		case '"':
			value.WriteByte('"')
		case 'x':
			hi, lo := l.peek(), l.peekAt(1)
			if isHexDigit(hi) && isHexDigit(lo) {
				l.advance()
				l.advance()
				value.WriteByte(hexValue(hi)<<4 | hexValue(lo))
			} else {
				l.report(CodeBadEscape, "\\x escape requires two hexadecimal digits", l.spanFrom(escStart))
			}
		default:
			l.report(CodeBadEscape, fmt.Sprintf("unknown escape sequence '\\%c'", e), l.spanFrom(escStart))
		}
	}

	return NewToken(StringLiteral, value.String(), l.spanFrom(start))
}

func (l *Lexer) consumeDigits() {
	for l.offset < len(l.text) && isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt 查看当前位置之后第n个字符
func (l *Lexer) peekAt(n int) rune {
	off := l.offset
	for i := 0; ; i++ {
		if off >= len(l.text) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(l.text[off:])
		if i == n {
			return r
		}
		off += size
	}
}

func (l *Lexer) advance() {
	if l.offset >= len(l.text) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.text[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) pos() Position {
	return NewPosition(l.line, l.column, l.offset, l.source.FilePath())
}

func (l *Lexer) spanFrom(start Position) Span {
	return NewSpan(start, l.pos())
}

func (l *Lexer) report(code, message string, span Span) {
	l.diagnostics = append(l.diagnostics, NewDiagnostic(LexError, code, message, span))
}

// matchOperator 按最长匹配识别运算符和分隔符
func matchOperator(s string) (TokenKind, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "==":
			return Equal, 2
		case "!=":
			return NotEqual, 2
		case "<=":
			return LessEq, 2
		case ">=":
			return GreatEq, 2
		case "&&":
			return AndAnd, 2
		case "||":
			return OrOr, 2
		case "->":
			return Arrow, 2
		}
	}
	if len(s) == 0 {
		return EOF, 0
	}
	switch s[0] {
	case '+':
		return Plus, 1
	case '-':
		return Minus, 1
	case '*':
		return Star, 1
	case '/':
		return Slash, 1
	case '%':
		return Percent, 1
	case '=':
		return Assign, 1
	case '<':
		return Less, 1
	case '>':
		return Greater, 1
	case '!':
		return Bang, 1
	case '&':
		return Amp, 1
	case '.':
		return Dot, 1
	case ',':
		return Comma, 1
	case ';':
		return Semicolon, 1
	case ':':
		return Colon, 1
	case '(':
		return LParen, 1
	case ')':
		return RParen, 1
	case '{':
		return LBrace, 1
	case '}':
		return RBrace, 1
	}
	return EOF, 0
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func hexValue(r rune) byte {
	switch {
	case isDigit(r):
		return byte(r - '0')
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10
	default:
		return byte(r-'A') + 10
	}
}

func isIntSuffix(s string) bool {
	return s == "i8" || s == "i16" || s == "i32" || s == "i64"
}

func isFloatSuffix(s string) bool {
	return s == "f32" || s == "f64"
}

// SplitNumericSuffix 拆分数值字面量的宽度后缀，例如 "42i32" -> ("42", "i32")
func SplitNumericSuffix(lexeme string) (string, string) {
	if strings.HasPrefix(lexeme, "0x") || strings.HasPrefix(lexeme, "0X") {
		// 十六进制数字包含 a-f，只有 i 开头的后缀是合法的
		if i := strings.IndexAny(lexeme, "i"); i > 0 {
			return lexeme[:i], lexeme[i:]
		}
		return lexeme, ""
	}
	for i := 0; i < len(lexeme); i++ {
		if lexeme[i] == 'i' || lexeme[i] == 'f' {
			return lexeme[:i], lexeme[i:]
		}
	}
	return lexeme, ""
}
