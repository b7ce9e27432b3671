package analysis

// SyncPointType 错误恢复同步点类型
type SyncPointType int

const (
	SyncNone SyncPointType = iota
	SyncSemicolon
	SyncBrace
	SyncStatement
	SyncDeclaration
	SyncEOF
)

// statementStarters 可以开始一条语句的关键字
var statementStarters = map[TokenKind]bool{
	KwLet:      true,
	KwVar:      true,
	KwIf:       true,
	KwWhile:    true,
	KwReturn:   true,
	KwBreak:    true,
	KwContinue: true,
}

// declarationStarters 可以开始一个顶层声明的关键字
var declarationStarters = map[TokenKind]bool{
	KwFn:     true,
	KwStruct: true,
	KwExtern: true,
	KwLet:    true,
	KwVar:    true,
}

// syncPointOf 判断当前Token是否为同步点。prev 为前一个Token
func syncPointOf(prev, cur Token, topLevel bool) SyncPointType {
	switch {
	case cur.Is(EOF):
		return SyncEOF
	case prev.Is(Semicolon) && !topLevel:
		return SyncSemicolon
	case cur.Is(RBrace) && !topLevel:
		return SyncBrace
	case declarationStarters[cur.Kind()]:
		return SyncDeclaration
	case statementStarters[cur.Kind()] && !topLevel:
		return SyncStatement
	}
	return SyncNone
}
