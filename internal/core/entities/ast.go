package entities

// ArgValueKind tags the variant stored in an ArgValue.
type ArgValueKind string

const (
	ArgValueString    ArgValueKind = "string"
	ArgValueNumber    ArgValueKind = "number"
	ArgValueVariable  ArgValueKind = "variable"
	ArgValueList      ArgValueKind = "list"
	ArgValueBroadcast ArgValueKind = "broadcast"
	ArgValueReporter  ArgValueKind = "reporter" // nested ASTBlock
	ArgValueSubstack  ArgValueKind = "substack" // nested statement list (c-blocks)
	ArgValueMenu      ArgValueKind = "menu"     // inline literal attached to a menu-backed field
	ArgValueProcArg   ArgValueKind = "procarg"  // reference to an enclosing procedure's argument
)

// ArgValue is a resolved argument to an ASTBlock, produced by the Parser.
type ArgValue struct {
	Kind     ArgValueKind
	Str      string      // literal text for String/Variable/List/Broadcast/Menu/ProcArg names
	Num      float64     // literal value for Number
	Reporter *ASTBlock   // nested block for Reporter
	Substack []*ASTBlock // statement list for Substack
	Boolean  bool        // true if this reporter occupies a boolean-shaped slot
}

// ASTBlock is one parsed statement or reporter expression in the AST
// produced by the Parser, prior to id allocation and target-format
// emission.
type ASTBlock struct {
	Command    *CommandDescriptor
	Args       map[string]ArgValue // keyed by schema slot name, e.g. "STEPS"
	SourceLine int
	Comment    string

	// Procedure-specific fields, populated only for procedures.call/.define.
	ProcName     string
	ProcArgNames []string
	ProcArgTypes []bool // true if the corresponding ProcArgNames entry is boolean-typed
	ProcWarp     bool
}

// PendingProcCall records a call to a not-yet-defined procedure so the
// Emitter can patch its mutation payload and call-argument shapes once the
// definition is seen later in the same sprite's script.
type PendingProcCall struct {
	ProcName string
	BlockID  string
	CallArgs map[string]ArgValue // argument name -> value, keyed by the name used at the call site
	Line     int
	Sprite   string
}
