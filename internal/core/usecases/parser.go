package usecases

import (
	"strings"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

// operatorCommands maps a binary operator to the catalog path it compiles
// down to. <=, >=, and != have no direct catalog entry; they are synthesized
// as operator.not wrapped around the complementary comparison, the same
// composition the reference catalog itself uses for "isn't equal to" menus.
var operatorCommands = map[string]string{
	"+":  "operator.add",
	"-":  "operator.subtract",
	"*":  "operator.multiply",
	"/":  "operator.divide",
	"%":  "operator.mod",
	"<":  "operator.lt",
	">":  "operator.gt",
	"==": "operator.equals",
	"^":  "operator.pow",
	"&&": "operator.and",
	"||": "operator.or",
}

// Parser turns a Lexer's token stream into a forest of ASTBlock statement
// sequences, one per top-level hat stack, validating every call against a
// CommandCatalog as it goes. State is tracked by recursion depth rather than
// an explicit state-machine value: parseStatements recurses into a nested
// substack for every c-block/procedure-definition body it opens, mirroring
// the reference parser's Top/InCall/InSubstack/InProcDef states without
// needing to name them.
type Parser struct {
	lexer    *Lexer
	reporter *ErrorReporter
	catalog  *entities.CommandCatalog
	symbols  *entities.SymbolTables

	tokens []entities.Token
	pos    int

	sprite      string
	currentProc string // name of the procedure currently being defined, "" at top level
	macroDepth  int    // nesting level of macro expansion this Parser runs at
}

// maxMacroDepth bounds nested macro expansion.
const maxMacroDepth = 32

// NewParser returns a Parser that validates calls against catalog, resolves
// symbol references through symbols, and reports errors through reporter.
func NewParser(lexer *Lexer, reporter *ErrorReporter, catalog *entities.CommandCatalog, symbols *entities.SymbolTables, sprite string) *Parser {
	return &Parser{lexer: lexer, reporter: reporter, catalog: catalog, symbols: symbols, sprite: sprite}
}

// Parse consumes a full token stream and returns the top-level sequence of
// statements, in source order, with c-block bodies and procedure definition
// bodies already nested as ArgValueSubstack entries.
func (p *Parser) Parse(tokens []entities.Token) []*entities.ASTBlock {
	p.tokens = tokens
	p.pos = 0
	return p.parseStatements(false)
}

func (p *Parser) peek() (entities.Token, bool) {
	if p.pos >= len(p.tokens) {
		return entities.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) parseStatements(inSubstack bool) []*entities.ASTBlock {
	var out []*entities.ASTBlock
	for {
		tok, ok := p.peek()
		if !ok {
			if inSubstack {
				p.reporter.Add(entities.KindSyntaxError, "missing closing }", "", 0)
			}
			return out
		}
		switch tok.Kind {
		case entities.TokenNewline:
			p.pos++
		case entities.TokenRCurly:
			p.pos++
			if inSubstack {
				return out
			}
			p.reporter.Add(entities.KindSyntaxError, "unexpected }", "}", tok.Line)
		case entities.TokenFunctionCall, entities.TokenFunctionDef, entities.TokenFunction:
			if block := p.parseStatement(); block != nil {
				out = append(out, block)
			}
		default:
			p.pos++
		}
	}
}

// parseStatement consumes one logical statement starting at the current
// position: the head token, any trailing comment/funcType annotations, and
// (if the statement opens a block) its nested substack body.
func (p *Parser) parseStatement() *entities.ASTBlock {
	tok := p.tokens[p.pos]
	p.pos++

	comment, funcType := "", ""
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.Kind == entities.TokenComment {
			comment = t.Text
			p.pos++
			continue
		}
		if t.Kind == entities.TokenFuncType {
			funcType = t.Text
			p.pos++
			continue
		}
		break
	}

	opensBlock := false
	if t, ok := p.peek(); ok && t.Kind == entities.TokenLCurly {
		opensBlock = true
		p.pos++
	}
	if !opensBlock {
		if t, ok := p.peek(); ok && t.Kind == entities.TokenNewline {
			p.pos++
		}
	}

	switch tok.Kind {
	case entities.TokenFunctionDef:
		return p.parseProcDef(tok, opensBlock, funcType, comment)
	case entities.TokenFunctionCall:
		return p.parseProcCall(tok, comment)
	default: // entities.TokenFunction
		if tok.Name == "else" {
			p.reporter.Add(entities.KindSyntaxError, "else with no matching if", "else", tok.Line)
			if opensBlock {
				p.parseStatements(true)
			}
			return nil
		}
		return p.parseCommand(tok, opensBlock, comment)
	}
}

func (p *Parser) parseCommand(tok entities.Token, opensBlock bool, comment string) *entities.ASTBlock {
	desc, ok := p.catalog.Lookup(tok.Name)
	if !ok {
		p.reporter.Add(entities.KindUnknownCommand, "unknown command", tok.Name, tok.Line)
		if opensBlock {
			p.parseStatements(true)
		}
		return nil
	}

	if desc.IsMacro() {
		return p.expandMacro(desc, tok, opensBlock, comment)
	}

	argTokens := p.lexer.TokenizeArgs(tok.Args, tok.Line)
	args := p.bindArgs(desc, argTokens, tok.Line)
	block := &entities.ASTBlock{Command: desc, Args: args, SourceLine: tok.Line, Comment: comment}

	if !opensBlock {
		if desc.Shape == entities.ShapeC || desc.Shape == entities.ShapeCEnd {
			p.reporter.Add(entities.KindSyntaxError, desc.FullPath()+" requires a { } body", desc.FullPath(), tok.Line)
		}
		return block
	}

	sub1 := p.parseStatements(true)
	args["SUBSTACK"] = entities.ArgValue{Kind: entities.ArgValueSubstack, Substack: sub1}

	if t, ok := p.peek(); ok && t.Kind == entities.TokenFunction && t.Name == "else" {
		p.pos++
		elseOpens := false
		if et, ok := p.peek(); ok && et.Kind == entities.TokenLCurly {
			p.pos++
			elseOpens = true
		}
		if !elseOpens {
			p.reporter.Add(entities.KindSyntaxError, "else requires a { } body", "else", t.Line)
		} else {
			sub2 := p.parseStatements(true)
			args["SUBSTACK2"] = entities.ArgValue{Kind: entities.ArgValueSubstack, Substack: sub2}
			if ifElse, ok2 := p.catalog.Lookup(ifElsePath(desc.FullPath())); ok2 {
				block.Command = ifElse
			} else {
				p.reporter.Add(entities.KindUnknownCommand, "no ifelse-shaped counterpart for "+desc.FullPath(), desc.FullPath(), t.Line)
			}
		}
	}

	return block
}

// ifElsePath rewrites a control.if-shaped catalog path to its two-branch
// counterpart. Anything other than control.if passes through unchanged,
// which surfaces as a lookup failure (a c-block other than if was given an
// else clause).
func ifElsePath(path string) string {
	if path == "control.if" {
		return "control.ifelse"
	}
	return path
}

// expandMacro re-lexes a macro's template lines, with {args} substituted
// positionally from the call site, and parses the result as if it had
// appeared inline in the source. The expansion is returned to the caller as
// a single synthetic ASTBlock wrapping the expanded statements, letting the
// caller treat a macro call exactly like an ordinary statement.
func (p *Parser) expandMacro(desc *entities.CommandDescriptor, tok entities.Token, opensBlock bool, comment string) *entities.ASTBlock {
	if p.macroDepth >= maxMacroDepth {
		p.reporter.Add(entities.KindMacroExpansionError, entities.ErrMacroDepthExceeded.Error(), desc.FullPath(), tok.Line)
		return nil
	}
	rawArgs := splitTopLevelArgs(tok.Args)
	for i := range rawArgs {
		rawArgs[i] = strings.TrimSpace(rawArgs[i])
	}

	var expanded strings.Builder
	for _, line := range desc.Macro.Template {
		expanded.WriteString(substituteMacroArgs(line, rawArgs))
		expanded.WriteString("\n")
	}
	if opensBlock {
		body := p.collectRawSubstack()
		expanded.WriteString(body)
	}

	subLexer := NewLexer(p.reporter)
	subTokens := subLexer.Tokenize(expanded.String())
	sub := NewParser(p.lexer, p.reporter, p.catalog, p.symbols, p.sprite)
	sub.macroDepth = p.macroDepth + 1
	stmts := sub.Parse(subTokens)
	if len(stmts) == 0 {
		return nil
	}
	if comment != "" {
		stmts[0].Comment = comment
	}
	if len(stmts) == 1 {
		return stmts[0]
	}
	// Chain multiple expanded statements under a synthetic wrapper so the
	// caller still sees exactly one ASTBlock for this call site; the Emitter
	// unwraps macro-expansion wrappers by splicing their substack inline.
	return &entities.ASTBlock{SourceLine: tok.Line, Comment: comment, Args: map[string]entities.ArgValue{
		"SUBSTACK": {Kind: entities.ArgValueSubstack, Substack: stmts},
	}}
}

// collectRawSubstack re-renders a substack's raw tokens back into source
// text for macro re-expansion, consuming tokens up to and including the
// matching closing brace.
func (p *Parser) collectRawSubstack() string {
	var b strings.Builder
	depth := 1
	for {
		t, ok := p.peek()
		if !ok {
			return b.String()
		}
		p.pos++
		switch t.Kind {
		case entities.TokenLCurly:
			depth++
		case entities.TokenRCurly:
			depth--
			if depth == 0 {
				return b.String()
			}
		case entities.TokenFunctionCall:
			b.WriteString("fn." + t.Name + "(" + t.Args + ")\n")
		case entities.TokenFunctionDef:
			b.WriteString("func:" + t.Name + "(" + t.Args + ")\n")
		case entities.TokenFunction:
			b.WriteString(t.Name + "(" + t.Args + ")\n")
		}
	}
}

func substituteMacroArgs(template string, args []string) string {
	out := template
	for i, a := range args {
		out = strings.ReplaceAll(out, placeholder(i), a)
	}
	return out
}

func placeholder(i int) string {
	return "{" + itoaSmall(i) + "}"
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (p *Parser) bindArgs(desc *entities.CommandDescriptor, argTokens []*entities.ArgToken, line int) map[string]entities.ArgValue {
	result := make(map[string]entities.ArgValue, len(desc.Args))
	if len(argTokens) != len(desc.Args) {
		p.reporter.Add(entities.KindArgCountMismatch, desc.FullPath()+" expects "+itoaSmall(len(desc.Args))+" argument(s)", desc.FullPath(), line)
	}
	n := len(argTokens)
	if len(desc.Args) < n {
		n = len(desc.Args)
	}
	for i := 0; i < n; i++ {
		spec := desc.Args[i]
		val := p.resolveArgToken(argTokens[i], spec, line)
		if spec.Broadcast && val.Kind == entities.ArgValueString {
			val.Kind = entities.ArgValueBroadcast
		}
		if spec.Kind == entities.ArgField && len(spec.Choices) > 0 && val.Kind == entities.ArgValueString {
			if !containsChoice(spec.Choices, val.Str) {
				p.reporter.Add(entities.KindInvalidFieldChoice, val.Str+" is not a valid choice for "+spec.Name, desc.FullPath(), line)
			}
		}
		result[spec.Name] = val
	}
	return result
}

func containsChoice(choices []string, value string) bool {
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}

// resolveArgToken turns one ArgToken leaf or operator expression into a
// resolved ArgValue, reporting ArgKindMismatch for tokens that cannot occupy
// spec's slot kind.
func (p *Parser) resolveArgToken(tok *entities.ArgToken, spec entities.ArgSpec, line int) entities.ArgValue {
	if !tok.IsLeaf() {
		return p.resolveOperatorExpr(tok, spec, line)
	}
	switch tok.Kind {
	case entities.TokenArgString:
		return entities.ArgValue{Kind: entities.ArgValueString, Str: tok.Text}
	case entities.TokenArgNumber:
		return entities.ArgValue{Kind: entities.ArgValueNumber, Num: ParseNumber(tok.Text)}
	case entities.TokenArgVariable:
		return entities.ArgValue{Kind: entities.ArgValueVariable, Str: tok.Name}
	case entities.TokenArgList:
		return entities.ArgValue{Kind: entities.ArgValueList, Str: tok.Name}
	case entities.TokenArgDict:
		p.reporter.Add(entities.KindArgKindMismatch, "dictionaries are not consumed by any catalog command yet", tok.Name, line)
		return entities.ArgValue{Kind: entities.ArgValueString, Str: tok.Name}
	case entities.TokenArgProcArg:
		if p.currentProc == "" || !p.procHasArg(tok.Name) {
			p.reporter.Add(entities.KindUndefinedProcedure, "a."+tok.Name+" used outside a matching procedure definition", tok.Name, line)
		}
		return entities.ArgValue{Kind: entities.ArgValueProcArg, Str: tok.Name}
	case entities.TokenArgReporter:
		return p.resolveReporter(tok, spec, line)
	default:
		p.reporter.Add(entities.KindArgKindMismatch, "unexpected argument shape for "+spec.Name, spec.Name, line)
		return entities.ArgValue{Kind: entities.ArgValueString}
	}
}

func (p *Parser) procHasArg(name string) bool {
	proc, ok := p.symbols.Procedures[p.currentProc]
	if !ok {
		return false
	}
	for _, n := range proc.ArgNames {
		if n == name {
			return true
		}
	}
	return false
}

func (p *Parser) resolveReporter(tok *entities.ArgToken, spec entities.ArgSpec, line int) entities.ArgValue {
	desc, ok := p.catalog.Lookup(tok.ReporterName)
	if !ok {
		p.reporter.Add(entities.KindUnknownCommand, "unknown reporter", tok.ReporterName, line)
		return entities.ArgValue{Kind: entities.ArgValueString}
	}
	if desc.IsMacro() {
		p.reporter.Add(entities.KindArgKindMismatch, "macros cannot be used as reporter expressions", tok.ReporterName, line)
		return entities.ArgValue{Kind: entities.ArgValueString}
	}
	subArgTokens := p.lexer.TokenizeArgs(tok.ReporterArgs, line)
	subArgs := p.bindArgs(desc, subArgTokens, line)
	block := &entities.ASTBlock{Command: desc, Args: subArgs, SourceLine: line}
	return entities.ArgValue{Kind: entities.ArgValueReporter, Reporter: block, Boolean: spec.Boolean}
}

// resolveOperatorExpr lowers a binary/unary operator expression tree into a
// nested reporter ASTBlock chain rooted at the equivalent catalog operator
// command, composing operator.not around the complementary comparison for
// <=, >=, and !=, none of which the catalog declares directly.
func (p *Parser) resolveOperatorExpr(tok *entities.ArgToken, spec entities.ArgSpec, line int) entities.ArgValue {
	if tok.Operator == "!" {
		operand := p.resolveOperand(tok.Right, line)
		notDesc, ok := p.catalog.Lookup("operator.not")
		if !ok || len(notDesc.Args) == 0 {
			p.reporter.Add(entities.KindUnknownCommand, "operator.not is not defined in the catalog", "!", line)
			return entities.ArgValue{Kind: entities.ArgValueString}
		}
		block := &entities.ASTBlock{Command: notDesc, SourceLine: line, Args: map[string]entities.ArgValue{
			notDesc.Args[0].Name: operand,
		}}
		return entities.ArgValue{Kind: entities.ArgValueReporter, Reporter: block, Boolean: true}
	}

	canonical, negate := tok.Operator, false
	switch tok.Operator {
	case "<=":
		canonical, negate = ">", true
	case ">=":
		canonical, negate = "<", true
	case "!=":
		canonical, negate = "==", true
	}

	path, ok := operatorCommands[canonical]
	if !ok {
		p.reporter.Add(entities.KindSyntaxError, "unsupported operator "+tok.Operator, tok.Operator, line)
		return entities.ArgValue{Kind: entities.ArgValueString}
	}
	desc, ok := p.catalog.Lookup(path)
	if !ok {
		p.reporter.Add(entities.KindUnknownCommand, path+" is not defined in the catalog", path, line)
		return entities.ArgValue{Kind: entities.ArgValueString}
	}

	left := p.resolveOperand(tok.Left, line)
	right := p.resolveOperand(tok.Right, line)
	args := map[string]entities.ArgValue{}
	if len(desc.Args) >= 2 {
		args[desc.Args[0].Name] = left
		args[desc.Args[1].Name] = right
	}
	block := &entities.ASTBlock{Command: desc, SourceLine: line, Args: args}

	if !negate {
		return entities.ArgValue{Kind: entities.ArgValueReporter, Reporter: block, Boolean: spec.Boolean}
	}

	notDesc, ok := p.catalog.Lookup("operator.not")
	if !ok || len(notDesc.Args) == 0 {
		p.reporter.Add(entities.KindUnknownCommand, "operator.not is not defined in the catalog", tok.Operator, line)
		return entities.ArgValue{Kind: entities.ArgValueReporter, Reporter: block, Boolean: spec.Boolean}
	}
	wrapped := &entities.ASTBlock{Command: notDesc, SourceLine: line, Args: map[string]entities.ArgValue{
		notDesc.Args[0].Name: {Kind: entities.ArgValueReporter, Reporter: block, Boolean: true},
	}}
	return entities.ArgValue{Kind: entities.ArgValueReporter, Reporter: wrapped, Boolean: true}
}

// resolveOperand resolves one side of an operator expression against a
// generic, non-boolean input slot; operand sub-expressions never need field
// validation since operators only ever accept inputs.
func (p *Parser) resolveOperand(tok *entities.ArgToken, line int) entities.ArgValue {
	if tok == nil {
		return entities.ArgValue{Kind: entities.ArgValueString}
	}
	return p.resolveArgToken(tok, entities.ArgSpec{Kind: entities.ArgInput}, line)
}

func (p *Parser) parseProcDef(tok entities.Token, opensBlock bool, funcType, comment string) *entities.ASTBlock {
	argTokens := p.lexer.TokenizeArgs(tok.Args, tok.Line)

	argNames := []string{}
	argIsBool := []bool{}
	for _, at := range argTokens {
		switch at.Kind {
		case entities.TokenArgDef:
			argNames = append(argNames, at.Name)
			argIsBool = append(argIsBool, strings.EqualFold(at.DefType, "bool") || strings.EqualFold(at.DefType, "boolean"))
		case entities.TokenArgString:
			argNames = append(argNames, at.Text)
			argIsBool = append(argIsBool, false)
		default:
			p.reporter.Add(entities.KindInvalidProcedureHeader, "procedure argument must be a bare name or name[bool]", tok.Name, tok.Line)
		}
	}

	proc := p.symbols.Procedure(tok.Name)
	if proc.Defined {
		p.reporter.Add(entities.KindInvalidProcedureHeader, "procedure "+tok.Name+" is already defined", tok.Name, tok.Line)
	}
	proc.Defined = true
	proc.ArgNames = argNames
	proc.ArgIsBool = argIsBool
	proc.Warp = funcType == "warp" || funcType == "turbo"

	prevProc := p.currentProc
	p.currentProc = tok.Name
	var body []*entities.ASTBlock
	if opensBlock {
		body = p.parseStatements(true)
	} else {
		p.reporter.Add(entities.KindInvalidProcedureHeader, "procedure definition requires a { } body", tok.Name, tok.Line)
	}
	p.currentProc = prevProc

	return &entities.ASTBlock{
		ProcName:     tok.Name,
		ProcArgNames: argNames,
		ProcArgTypes: argIsBool,
		ProcWarp:     proc.Warp,
		SourceLine:   tok.Line,
		Comment:      comment,
		Args: map[string]entities.ArgValue{
			"SUBSTACK": {Kind: entities.ArgValueSubstack, Substack: body},
		},
	}
}

func (p *Parser) parseProcCall(tok entities.Token, comment string) *entities.ASTBlock {
	argTokens := p.lexer.TokenizeArgs(tok.Args, tok.Line)
	callArgs := make(map[string]entities.ArgValue, len(argTokens))
	for _, at := range argTokens {
		if at.Kind != entities.TokenArgKwarg {
			p.reporter.Add(entities.KindInvalidProcedureHeader, "procedure call arguments must be name:value", tok.Name, tok.Line)
			continue
		}
		valTok := p.lexer.TokenizeSingleArg(at.Text, tok.Line)
		callArgs[at.Name] = p.resolveOperand(valTok, tok.Line)
	}
	return &entities.ASTBlock{ProcName: tok.Name, Args: callArgs, SourceLine: tok.Line, Comment: comment}
}
