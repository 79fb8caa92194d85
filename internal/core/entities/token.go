package entities

// TokenKind tags the variant stored in a Token.
type TokenKind string

const (
	TokenFunctionCall TokenKind = "functionCall" // fn.name(...)
	TokenFunctionDef  TokenKind = "functionDef"  // func:name(...)
	TokenFunction     TokenKind = "function"     // bare catalog command
	TokenLParen       TokenKind = "lparen"
	TokenRParen       TokenKind = "rparen"
	TokenLCurly       TokenKind = "lcurly"
	TokenRCurly       TokenKind = "rcurly"
	TokenComment      TokenKind = "comment"
	TokenFuncType     TokenKind = "funcType" // trailing "-> %b"/"-> %s" annotation
	TokenNewline      TokenKind = "newline"
	TokenArgString    TokenKind = "argString"
	TokenArgNumber    TokenKind = "argNumber"
	TokenArgVariable  TokenKind = "argVariable"  // $name
	TokenArgList      TokenKind = "argList"      // @l:name
	TokenArgDict      TokenKind = "argDict"      // @d:name
	TokenArgProcArg   TokenKind = "argProcArg"   // a.name
	TokenArgReporter  TokenKind = "argReporter"  // nested call
	TokenArgKwarg     TokenKind = "argKwarg"     // name:value (procedure call argument)
	TokenArgDef       TokenKind = "argDef"       // name[Type] procedure-definition argument
	TokenArgOperator  TokenKind = "argOperator"  // a binary/unary expression tree
)

// Token is a single lexical unit produced by the Lexer. Only the fields
// relevant to Kind are populated; the rest are zero values.
type Token struct {
	Kind TokenKind
	Name string // command/procedure/variable/list name, depending on Kind
	Args string // raw, not-yet-tokenized argument text for *Call/*Def/Function tokens
	Text string // literal text payload (comment body, funcType annotation, raw operator expression)
	Line int
}

// ArgToken is the result of tokenizing one argument expression via the
// operator-precedence tiers. It is a tagged tree: Operator is non-empty
// for binary/unary nodes, in which case Left/Right (or just Right for unary
// "!") hold the operand subtrees; otherwise Kind/Name/Text describe a leaf.
type ArgToken struct {
	Kind     TokenKind
	Name     string
	Text     string
	Operator string
	Left     *ArgToken
	Right    *ArgToken
	// ReporterCall holds the decomposed "name(args)" text for TokenArgReporter leaves.
	ReporterName string
	ReporterArgs string
	// DefType holds the declared type tag for TokenArgDef leaves, e.g. "bool" in "x[bool]".
	DefType string
}

// IsLeaf reports whether this node has no operator (i.e. is not a binary/unary expression).
func (a *ArgToken) IsLeaf() bool { return a.Operator == "" }

// OperatorTiers lists the binary operator tiers from lowest to highest
// precedence, matching the reference tokenizer's _tokenize_args table.
// Unary "!" binds tighter than any of these and is handled as a prefix
// case before tier splitting is attempted.
var OperatorTiers = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<=", ">=", "<", ">"},
	{"+", "-"},
	{"*", "/", "%"},
	{"^"},
}
