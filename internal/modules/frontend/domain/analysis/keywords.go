package analysis

import "golang.org/x/exp/slices"

// keywords 保留字表，初始化后只读
var keywords = map[string]TokenKind{
	"fn":       KwFn,
	"let":      KwLet,
	"var":      KwVar,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"return":   KwReturn,
	"struct":   KwStruct,
	"extern":   KwExtern,
	"as":       KwAs,
	"break":    KwBreak,
	"continue": KwContinue,
	"true":     BoolLiteral,
	"false":    BoolLiteral,
}

// LookupKeyword 查找保留字，返回对应的Token类型
func LookupKeyword(word string) (TokenKind, bool) {
	kind, ok := keywords[word]
	return kind, ok
}

// IsReserved 检查是否为保留字
func IsReserved(word string) bool {
	_, ok := keywords[word]
	return ok
}

// ReservedWords 返回排序后的保留字列表
func ReservedWords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
