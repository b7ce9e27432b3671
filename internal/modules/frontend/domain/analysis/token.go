package analysis

import "fmt"

// TokenKind 表示Token的类型
type TokenKind int

const (
	// 特殊Token
	EOF TokenKind = iota
	Illegal

	// 标识符和字面量
	Ident
	IntLiteral
	FloatLiteral
	StringLiteral
	BoolLiteral

	// 关键字
	KwFn
	KwLet
	KwVar
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwStruct
	KwExtern
	KwAs
	KwBreak
	KwContinue

	// 运算符
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Percent  // %
	Assign   // =
	Equal    // ==
	NotEqual // !=
	Less     // <
	LessEq   // <=
	Greater  // >
	GreatEq  // >=
	Bang     // !
	AndAnd   // &&
	OrOr     // ||
	Amp      // &
	Arrow    // ->

	// 分隔符
	Dot       // .
	Comma     // ,
	Semicolon // ;
	Colon     // :
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
)

var tokenKindNames = [...]string{
	EOF:           "EOF",
	Illegal:       "Illegal",
	Ident:         "Identifier",
	IntLiteral:    "IntLiteral",
	FloatLiteral:  "FloatLiteral",
	StringLiteral: "StringLiteral",
	BoolLiteral:   "BoolLiteral",
	KwFn:          "fn",
	KwLet:         "let",
	KwVar:         "var",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwReturn:      "return",
	KwStruct:      "struct",
	KwExtern:      "extern",
	KwAs:          "as",
	KwBreak:       "break",
	KwContinue:    "continue",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Assign:        "=",
	Equal:         "==",
	NotEqual:      "!=",
	Less:          "<",
	LessEq:        "<=",
	Greater:       ">",
	GreatEq:       ">=",
	Bang:          "!",
	AndAnd:        "&&",
	OrOr:          "||",
	Amp:           "&",
	Arrow:         "->",
	Dot:           ".",
	Comma:         ",",
	Semicolon:     ";",
	Colon:         ":",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
}

// String 返回TokenKind的字符串表示
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) && tokenKindNames[k] != "" {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsKeyword 检查是否为关键字
func (k TokenKind) IsKeyword() bool {
	return k >= KwFn && k <= KwContinue
}

// IsLiteral 检查是否为字面量
func (k TokenKind) IsLiteral() bool {
	return k >= IntLiteral && k <= BoolLiteral
}

// Token 表示词法单元，是不可变的值对象
type Token struct {
	kind   TokenKind
	lexeme string
	span   Span
}

// NewToken 创建新的Token
func NewToken(kind TokenKind, lexeme string, span Span) Token {
	return Token{
		kind:   kind,
		lexeme: lexeme,
		span:   span,
	}
}

// Kind 返回Token类型
func (t Token) Kind() TokenKind {
	return t.kind
}

// Lexeme 返回Token的词素。字符串字面量返回转义处理后的内容
func (t Token) Lexeme() string {
	return t.lexeme
}

// Span 返回Token的位置区间
func (t Token) Span() Span {
	return t.span
}

// Is 检查Token是否为指定类型
func (t Token) Is(kind TokenKind) bool {
	return t.kind == kind
}

// String 返回Token的字符串表示
func (t Token) String() string {
	switch t.kind {
	case EOF:
		return "end of file"
	case Ident, IntLiteral, FloatLiteral, BoolLiteral:
		return fmt.Sprintf("%s '%s'", t.kind, t.lexeme)
	case StringLiteral:
		return fmt.Sprintf("%s %q", t.kind, t.lexeme)
	case Illegal:
		return fmt.Sprintf("illegal '%s'", t.lexeme)
	default:
		return fmt.Sprintf("'%s'", t.kind)
	}
}
