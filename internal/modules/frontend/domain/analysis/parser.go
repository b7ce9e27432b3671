package analysis

import "fmt"

// Parser 语法分析器接口
type Parser interface {
	// Parse 将Token序列解析为AST。出错时返回带占位节点的AST和诊断，从不中止
	Parse(tokens []Token) (*Program, []Diagnostic)
}

// SimpleParser 递归下降语法分析器，表达式使用优先级爬升
type SimpleParser struct{}

// NewSimpleParser 创建新的语法分析器
func NewSimpleParser() Parser {
	return &SimpleParser{}
}

// Parse 实现Parser接口
func (sp *SimpleParser) Parse(tokens []Token) (*Program, []Diagnostic) {
	p := newParserState(tokens)
	program := p.parseProgram()
	return program, p.diagnostics
}

// ParseSource 词法分析并解析源代码
func ParseSource(source SourceCode) (*Program, []Diagnostic) {
	tokens, lexDiags := NewSimpleTokenizer().Tokenize(source)
	program, parseDiags := NewSimpleParser().Parse(tokens)
	program.File = source.FilePath()
	return program, append(lexDiags, parseDiags...)
}

// parserState 单次解析的可变状态
type parserState struct {
	tokens      []Token
	current     int
	diagnostics []Diagnostic
	panicMode   bool
}

func newParserState(tokens []Token) *parserState {
	// 非法Token已由词法分析器报告，这里直接丢弃
	filtered := make([]Token, 0, len(tokens)+1)
	for _, tok := range tokens {
		if tok.Is(Illegal) {
			continue
		}
		filtered = append(filtered, tok)
		if tok.Is(EOF) {
			break
		}
	}
	if len(filtered) == 0 || !filtered[len(filtered)-1].Is(EOF) {
		var end Span
		if len(filtered) > 0 {
			last := filtered[len(filtered)-1].Span()
			end = NewSpan(last.End, last.End)
		}
		filtered = append(filtered, NewToken(EOF, "", end))
	}
	return &parserState{tokens: filtered}
}

// parseProgram program := decl*
func (p *parserState) parseProgram() *Program {
	start := p.peek().Span()
	var decls []Decl

	for !p.check(EOF) {
		before := p.current
		decl := p.parseDeclaration()
		if decl != nil {
			decls = append(decls, decl)
		}
		if p.panicMode {
			p.synchronize(true)
		}
		if p.current == before {
			p.advance()
		}
	}

	return NewProgram(start.Start.File(), decls, start.To(p.peek().Span()))
}

func (p *parserState) parseDeclaration() Decl {
	switch p.peek().Kind() {
	case KwFn:
		return p.parseFunction()
	case KwExtern:
		return p.parseExtern()
	case KwStruct:
		return p.parseStruct()
	case KwLet, KwVar:
		return p.parseGlobal()
	}
	tok := p.peek()
	p.errorAt(tok.Span(), CodeExpectedDecl, fmt.Sprintf("expected declaration, found %s", tok))
	return NewBadDecl(tok.Span())
}

// parseFunction fnDecl := 'fn' IDENT '(' params? ')' ('->' type)? block
func (p *parserState) parseFunction() Decl {
	start := p.advance()
	name, ok := p.expect(Ident, "function name")
	if !ok {
		return NewBadDecl(start.Span())
	}
	params := p.parseParams()
	var ret TypeExpr
	if p.match(Arrow) {
		ret = p.parseType()
	}
	if p.panicMode {
		return NewBadDecl(start.Span().To(p.previous().Span()))
	}
	if !p.check(LBrace) {
		p.errorAtCurrent(CodeUnexpectedToken, "'{' before function body")
		return NewBadDecl(start.Span().To(p.previous().Span()))
	}
	body := p.parseBlock()
	return NewFunctionDecl(name.Lexeme(), name.Span(), params, ret, body, start.Span().To(body.Span()))
}

// parseExtern externDecl := 'extern' 'fn' IDENT '(' params? ')' ('->' type)? ';'
func (p *parserState) parseExtern() Decl {
	start := p.advance()
	if _, ok := p.expect(KwFn, "'fn' after 'extern'"); !ok {
		return NewBadDecl(start.Span())
	}
	name, ok := p.expect(Ident, "function name")
	if !ok {
		return NewBadDecl(start.Span())
	}
	params := p.parseParams()
	var ret TypeExpr
	if p.match(Arrow) {
		ret = p.parseType()
	}
	semi, _ := p.expect(Semicolon, "';' after extern declaration")
	if p.panicMode {
		return NewBadDecl(start.Span().To(p.previous().Span()))
	}
	return NewExternDecl(name.Lexeme(), name.Span(), params, ret, start.Span().To(semi.Span()))
}

// parseStruct structDecl := 'struct' IDENT '{' (field (',' field)* ','?)? '}'
func (p *parserState) parseStruct() Decl {
	start := p.advance()
	name, ok := p.expect(Ident, "struct name")
	if !ok {
		return NewBadDecl(start.Span())
	}
	if _, ok := p.expect(LBrace, "'{' after struct name"); !ok {
		return NewBadDecl(start.Span().To(name.Span()))
	}

	var fields []*FieldDecl
	for !p.check(RBrace) && !p.check(EOF) {
		fname, ok := p.expect(Ident, "field name")
		if !ok {
			break
		}
		if _, ok := p.expect(Colon, "':' after field name"); !ok {
			break
		}
		typ := p.parseType()
		fields = append(fields, NewFieldDecl(fname.Lexeme(), typ, fname.Span().To(typ.Span())))
		if !p.match(Comma) {
			break
		}
	}

	rbrace, _ := p.expect(RBrace, "'}' after struct fields")
	if p.panicMode {
		return NewBadDecl(start.Span().To(p.previous().Span()))
	}
	return NewStructDecl(name.Lexeme(), name.Span(), fields, start.Span().To(rbrace.Span()))
}

// parseGlobal globalDecl := ('let' | 'var') IDENT (':' type)? '=' expr ';'
func (p *parserState) parseGlobal() Decl {
	kw := p.advance()
	name, typ, init, end, ok := p.parseBinding()
	if !ok {
		return NewBadDecl(kw.Span().To(p.previous().Span()))
	}
	return NewGlobalDecl(kw.Is(KwVar), name.Lexeme(), name.Span(), typ, init, kw.Span().To(end))
}

// parseBinding IDENT (':' type)? ('=' expr)? ';'
func (p *parserState) parseBinding() (Token, TypeExpr, Expr, Span, bool) {
	name, ok := p.expect(Ident, "variable name")
	if !ok {
		return name, nil, nil, Span{}, false
	}
	var typ TypeExpr
	if p.match(Colon) {
		typ = p.parseType()
	}
	var init Expr
	if p.match(Assign) {
		init = p.parseExpression()
	}
	semi, ok := p.expect(Semicolon, "';' after variable declaration")
	if !ok {
		return name, nil, nil, Span{}, false
	}
	return name, typ, init, semi.Span(), true
}

// parseParams '(' (IDENT ':' type (',' IDENT ':' type)*)? ')'
func (p *parserState) parseParams() []*Param {
	if _, ok := p.expect(LParen, "'(' after function name"); !ok {
		return nil
	}
	var params []*Param
	if !p.check(RParen) {
		for {
			name, ok := p.expect(Ident, "parameter name")
			if !ok {
				return params
			}
			if _, ok := p.expect(Colon, "':' after parameter name"); !ok {
				return params
			}
			typ := p.parseType()
			params = append(params, NewParam(name.Lexeme(), typ, name.Span().To(typ.Span())))
			if !p.match(Comma) {
				break
			}
		}
	}
	p.expect(RParen, "')' after parameters")
	return params
}

// parseType type := '*' type | IDENT
func (p *parserState) parseType() TypeExpr {
	if p.check(Star) {
		star := p.advance()
		elem := p.parseType()
		return NewPointerTypeExpr(elem, star.Span().To(elem.Span()))
	}
	if p.check(Ident) {
		tok := p.advance()
		return NewNamedType(tok.Lexeme(), tok.Span())
	}
	tok := p.peek()
	p.errorAt(tok.Span(), CodeExpectedType, fmt.Sprintf("expected type, found %s", tok))
	// 空名字表示语法错误，解析器不会再报告
	return NewNamedType("", tok.Span())
}

// parseBlock block := '{' stmt* '}'
func (p *parserState) parseBlock() *Block {
	lbrace, _ := p.expect(LBrace, "'{'")
	var stmts []Stmt

	for !p.check(RBrace) && !p.check(EOF) {
		before := p.current
		stmts = append(stmts, p.parseStatement())
		if p.panicMode {
			p.synchronize(false)
		}
		if p.current == before {
			p.advance()
		}
	}

	rbrace, _ := p.expect(RBrace, "'}' to close block")
	return NewBlock(stmts, rbrace.Span(), lbrace.Span().To(rbrace.Span()))
}

// parseBody if/while 的主体。单条语句包装成隐式块
func (p *parserState) parseBody() *Block {
	if p.check(LBrace) {
		return p.parseBlock()
	}
	stmt := p.parseStatement()
	end := stmt.Span().End
	block := NewBlock([]Stmt{stmt}, NewSpan(end, end), stmt.Span())
	block.Implicit = true
	return block
}

func (p *parserState) parseStatement() Stmt {
	tok := p.peek()
	switch tok.Kind() {
	case KwLet, KwVar:
		p.advance()
		name, typ, init, end, ok := p.parseBinding()
		if !ok {
			return NewBadStmt(tok.Span().To(p.previous().Span()))
		}
		return NewVarDecl(tok.Is(KwVar), name.Lexeme(), name.Span(), typ, init, tok.Span().To(end))
	case KwIf:
		return p.parseIf()
	case KwWhile:
		return p.parseWhile()
	case KwReturn:
		p.advance()
		var value Expr
		if !p.check(Semicolon) {
			value = p.parseExpression()
		}
		semi, _ := p.expect(Semicolon, "';' after return")
		return NewReturnStmt(value, tok.Span().To(semi.Span()))
	case KwBreak:
		p.advance()
		semi, _ := p.expect(Semicolon, "';' after 'break'")
		return NewBreakStmt(tok.Span().To(semi.Span()))
	case KwContinue:
		p.advance()
		semi, _ := p.expect(Semicolon, "';' after 'continue'")
		return NewContinueStmt(tok.Span().To(semi.Span()))
	case LBrace:
		return p.parseBlock()
	}

	if !p.canStartExpression() {
		p.errorAt(tok.Span(), CodeUnexpectedToken, fmt.Sprintf("expected statement, found %s", tok))
		return NewBadStmt(tok.Span())
	}
	x := p.parseExpression()
	semi, _ := p.expect(Semicolon, "';' after expression")
	return NewExprStmt(x, x.Span().To(semi.Span()))
}

// parseIf ifStmt := 'if' '(' expr ')' stmt ('else' stmt)?
// else 总是绑定到最近的未匹配 if
func (p *parserState) parseIf() Stmt {
	start := p.advance()
	cond := p.parseCondition("if")
	if p.panicMode {
		return NewBadStmt(start.Span().To(p.previous().Span()))
	}
	then := p.parseBody()
	var els Stmt
	if p.match(KwElse) {
		if p.check(KwIf) {
			els = p.parseIf()
		} else {
			els = p.parseBody()
		}
	}
	end := then.Span()
	if els != nil {
		end = els.Span()
	}
	return NewIfStmt(cond, then, els, start.Span().To(end))
}

// parseWhile whileStmt := 'while' '(' expr ')' stmt
func (p *parserState) parseWhile() Stmt {
	start := p.advance()
	cond := p.parseCondition("while")
	if p.panicMode {
		return NewBadStmt(start.Span().To(p.previous().Span()))
	}
	body := p.parseBody()
	return NewWhileStmt(cond, body, start.Span().To(body.Span()))
}

func (p *parserState) parseCondition(keyword string) Expr {
	if _, ok := p.expect(LParen, fmt.Sprintf("'(' after '%s'", keyword)); !ok {
		return NewBadExpr(p.peek().Span())
	}
	cond := p.parseExpression()
	p.expect(RParen, "')' after condition")
	return cond
}

// parseExpression 解析完整表达式（最低优先级为赋值）
func (p *parserState) parseExpression() Expr {
	return p.parseBinary(PrecAssignment)
}

// parseBinary 优先级爬升
func (p *parserState) parseBinary(min Precedence) Expr {
	left := p.parseUnary()
	for {
		def, ok := LookupBinaryOperator(p.peek().Kind())
		if !ok || def.Precedence < min {
			return left
		}
		p.advance()

		if def.Kind == KwAs {
			left = NewCastExpr(left, p.parseType())
			continue
		}

		next := def.Precedence + 1
		if def.Associativity == RightAssoc {
			next = def.Precedence
		}
		right := p.parseBinary(next)

		switch def.Kind {
		case Assign:
			left = NewAssignExpr(left, right)
		case AndAnd:
			left = NewLogicalExpr(OpAnd, left, right)
		case OrOr:
			left = NewLogicalExpr(OpOr, left, right)
		default:
			left = NewBinaryExpr(binaryOpTokens[def.Kind], left, right)
		}
	}
}

func (p *parserState) parseUnary() Expr {
	if op, ok := unaryOpTokens[p.peek().Kind()]; ok {
		tok := p.advance()
		operand := p.parseUnary()
		return NewUnaryExpr(op, operand, tok.Span().To(operand.Span()))
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *parserState) parsePostfix(x Expr) Expr {
	for {
		switch {
		case p.check(LParen):
			p.advance()
			var args []Expr
			if !p.check(RParen) {
				for {
					args = append(args, p.parseExpression())
					if !p.match(Comma) {
						break
					}
				}
			}
			rparen, _ := p.expect(RParen, "')' after arguments")
			x = NewCallExpr(x, args, x.Span().To(rparen.Span()))
		case p.check(Dot):
			p.advance()
			name, ok := p.expect(Ident, "field name after '.'")
			if !ok {
				return x
			}
			x = NewFieldExpr(x, name.Lexeme(), name.Span())
		default:
			return x
		}
	}
}

func (p *parserState) parsePrimary() Expr {
	tok := p.peek()
	switch tok.Kind() {
	case IntLiteral:
		p.advance()
		digits, suffix := SplitNumericSuffix(tok.Lexeme())
		return NewLiteral(IntLit, digits, suffix, tok.Span())
	case FloatLiteral:
		p.advance()
		digits, suffix := SplitNumericSuffix(tok.Lexeme())
		return NewLiteral(FloatLit, digits, suffix, tok.Span())
	case StringLiteral:
		p.advance()
		return NewLiteral(StringLit, tok.Lexeme(), "", tok.Span())
	case BoolLiteral:
		p.advance()
		return NewLiteral(BoolLit, tok.Lexeme(), "", tok.Span())
	case Ident:
		if p.isStructLiteralStart() {
			return p.parseStructLiteral()
		}
		p.advance()
		return NewIdentifier(tok.Lexeme(), tok.Span())
	case LParen:
		p.advance()
		x := p.parseExpression()
		p.expect(RParen, "')' after expression")
		return x
	}
	p.errorAt(tok.Span(), CodeExpectedExpr, fmt.Sprintf("expected expression, found %s", tok))
	return NewBadExpr(tok.Span())
}

// isStructLiteralStart IDENT '{' '}' 或 IDENT '{' IDENT ':'
func (p *parserState) isStructLiteralStart() bool {
	if !p.peekAt(1).Is(LBrace) {
		return false
	}
	next := p.peekAt(2)
	return next.Is(RBrace) || next.Is(Ident) && p.peekAt(3).Is(Colon)
}

func (p *parserState) parseStructLiteral() Expr {
	name := p.advance()
	p.advance()

	var fields []*FieldInit
	for !p.check(RBrace) && !p.check(EOF) {
		fname, ok := p.expect(Ident, "field name")
		if !ok {
			break
		}
		if _, ok := p.expect(Colon, "':' after field name"); !ok {
			break
		}
		value := p.parseExpression()
		fields = append(fields, NewFieldInit(fname.Lexeme(), value, fname.Span().To(value.Span())))
		if !p.match(Comma) {
			break
		}
	}
	rbrace, _ := p.expect(RBrace, "'}' after struct literal")
	return NewStructLiteral(name.Lexeme(), name.Span(), fields, name.Span().To(rbrace.Span()))
}

func (p *parserState) canStartExpression() bool {
	switch p.peek().Kind() {
	case Ident, IntLiteral, FloatLiteral, StringLiteral, BoolLiteral,
		LParen, Minus, Bang, Star, Amp:
		return true
	}
	return false
}

// synchronize 恐慌模式恢复：跳过Token直到同步点
func (p *parserState) synchronize(topLevel bool) {
	p.panicMode = false
	for {
		var prev Token
		if p.current > 0 {
			prev = p.tokens[p.current-1]
		}
		if syncPointOf(prev, p.peek(), topLevel) != SyncNone {
			return
		}
		p.advance()
	}
}

func (p *parserState) peek() Token {
	return p.tokens[p.current]
}

func (p *parserState) peekAt(n int) Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *parserState) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *parserState) advance() Token {
	tok := p.tokens[p.current]
	if !tok.Is(EOF) {
		p.current++
	}
	return tok
}

func (p *parserState) check(kind TokenKind) bool {
	return p.peek().Is(kind)
}

func (p *parserState) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// expect 消费指定类型的Token，失败时报告错误并返回当前Token
func (p *parserState) expect(kind TokenKind, what string) (Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorAtCurrent(CodeUnexpectedToken, what)
	return p.peek(), false
}

func (p *parserState) errorAtCurrent(code, what string) {
	tok := p.peek()
	p.errorAt(tok.Span(), code, fmt.Sprintf("expected %s, found %s", what, tok))
}

// errorAt 报告语法错误。恐慌模式下抑制级联错误
func (p *parserState) errorAt(span Span, code, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.diagnostics = append(p.diagnostics, NewDiagnostic(SyntaxError, code, message, span))
}
