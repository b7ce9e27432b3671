package analysis

// Precedence 运算符优先级，数值越大结合越紧
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecRelational
	PrecAdditive
	PrecMultiplicative
	PrecCast
	PrecUnary
	PrecPostfix
)

// Associativity 结合性
type Associativity int

const (
	LeftAssoc Associativity = iota
	RightAssoc
)

// OperatorDefinition 二元运算符定义
type OperatorDefinition struct {
	Kind          TokenKind
	Precedence    Precedence
	Associativity Associativity
}

// binaryOperators 二元运算符表，初始化后只读
var binaryOperators = map[TokenKind]OperatorDefinition{
	Assign:   {Assign, PrecAssignment, RightAssoc},
	OrOr:     {OrOr, PrecOr, LeftAssoc},
	AndAnd:   {AndAnd, PrecAnd, LeftAssoc},
	Equal:    {Equal, PrecEquality, LeftAssoc},
	NotEqual: {NotEqual, PrecEquality, LeftAssoc},
	Less:     {Less, PrecRelational, LeftAssoc},
	LessEq:   {LessEq, PrecRelational, LeftAssoc},
	Greater:  {Greater, PrecRelational, LeftAssoc},
	GreatEq:  {GreatEq, PrecRelational, LeftAssoc},
	Plus:     {Plus, PrecAdditive, LeftAssoc},
	Minus:    {Minus, PrecAdditive, LeftAssoc},
	Star:     {Star, PrecMultiplicative, LeftAssoc},
	Slash:    {Slash, PrecMultiplicative, LeftAssoc},
	Percent:  {Percent, PrecMultiplicative, LeftAssoc},
	KwAs:     {KwAs, PrecCast, LeftAssoc},
}

// LookupBinaryOperator 查找二元运算符定义
func LookupBinaryOperator(kind TokenKind) (OperatorDefinition, bool) {
	def, ok := binaryOperators[kind]
	return def, ok
}

// BinaryOp 算术与比较运算符
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var binaryOpTokens = map[TokenKind]BinaryOp{
	Plus:     OpAdd,
	Minus:    OpSub,
	Star:     OpMul,
	Slash:    OpDiv,
	Percent:  OpRem,
	Equal:    OpEq,
	NotEqual: OpNe,
	Less:     OpLt,
	LessEq:   OpLe,
	Greater:  OpGt,
	GreatEq:  OpGe,
}

// String 返回运算符的源码形式
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpRem:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// IsComparison 检查是否为比较运算符
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq
}

// IsEquality 检查是否为相等性运算符
func (op BinaryOp) IsEquality() bool {
	return op == OpEq || op == OpNe
}

// LogicalOp 短路逻辑运算符
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

// String 返回运算符的源码形式
func (op LogicalOp) String() string {
	if op == OpAnd {
		return "&&"
	}
	return "||"
}

// UnaryOp 一元运算符
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpDeref
	OpAddr
)

var unaryOpTokens = map[TokenKind]UnaryOp{
	Minus: OpNeg,
	Bang:  OpNot,
	Star:  OpDeref,
	Amp:   OpAddr,
}

// String 返回运算符的源码形式
func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpDeref:
		return "*"
	case OpAddr:
		return "&"
	default:
		return "?"
	}
}
