package usecases

import (
	"strconv"
	"strings"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

// Emitter walks a Parser's ASTBlock forest and produces an entities.Target:
// a per-sprite block map, symbol tables, and monitors, in the shapes the
// target format's project.json expects. This is the heaviest phase of the
// pipeline, grounded block-for-block on the reference tool's
// _create_block/_simplify_args/_process_procDef/_process_procCall/
// format_args/_create_comment/_generate_id family of methods.
type Emitter struct {
	reporter *ErrorReporter
	symbols  *entities.SymbolTables
	sprite   string

	// currentProcArgBool tracks the boolean-ness of the procedure arguments
	// in scope while emitting a procedure definition's body, so a.name
	// references pick the right argument_reporter_* opcode.
	currentProcArgBool map[string]bool

	// stackCount is local to this Emitter (one per sprite target), since
	// each sprite lays its scripts out on its own canvas; everything else on
	// symbols (ids, procedures, variables/lists/broadcasts) is shared
	// project-wide to keep ids globally unique.
	stackCount int

	pendingCalls []entities.PendingProcCall
}

// NewEmitter returns an Emitter scoped to one sprite's compilation.
func NewEmitter(reporter *ErrorReporter, symbols *entities.SymbolTables, sprite string) *Emitter {
	return &Emitter{reporter: reporter, symbols: symbols, sprite: sprite}
}

// Emit lays out stmts as one or more top-level scripts on target, in source
// order. A new script begins at the first statement, after any cap-shaped
// block (stop/return ends a script), and at any hat or procedure-definition
// statement.
func (e *Emitter) Emit(stmts []*entities.ASTBlock, target *entities.Target) {
	var prevID string
	startNewStack := true

	for _, stmt := range stmts {
		isHat := stmt.Command != nil && stmt.Command.Shape == entities.ShapeHat
		isProcDef := stmt.ProcName != "" && stmt.ProcArgNames != nil
		if isHat || isProcDef {
			startNewStack = true
		}

		var parent *string
		if !startNewStack {
			p := prevID
			parent = &p
		}

		id := e.emitBlock(stmt, parent, target, startNewStack)
		if startNewStack {
			e.stackCount++
		}
		if parent != nil {
			if b, ok := target.Blocks[*parent]; ok {
				nid := id
				b.Next = &nid
			}
		}

		prevID = id
		startNewStack = stmt.Command != nil && stmt.Command.Shape == entities.ShapeCap
	}
}

// PendingCalls returns every call emitted to a procedure that was never
// defined, for the Compiler to surface as UndefinedProcedure diagnostics
// once the whole sprite has been emitted.
func (e *Emitter) PendingCalls() []entities.PendingProcCall { return e.pendingCalls }

func (e *Emitter) emitBlock(stmt *entities.ASTBlock, parent *string, target *entities.Target, topLevel bool) string {
	switch {
	case stmt.ProcName != "" && stmt.ProcArgNames != nil:
		return e.emitProcDef(stmt, parent, target, topLevel)
	case stmt.ProcName != "":
		return e.emitProcCall(stmt, parent, target, topLevel)
	case stmt.Command == nil:
		// A macro-expansion wrapper: splice its substack inline under parent
		// and return the id of its first emitted block.
		sub := stmt.Args["SUBSTACK"].Substack
		return e.emitChain(sub, parent, target, topLevel)
	default:
		return e.emitCommand(stmt, parent, target, topLevel)
	}
}

// emitChain emits a sequence of statements chained by next/parent, used both
// for ordinary c-block substacks and for splicing a macro expansion inline.
// It returns the id of the first block in the chain.
func (e *Emitter) emitChain(stmts []*entities.ASTBlock, parent *string, target *entities.Target, topLevel bool) string {
	if len(stmts) == 0 {
		return ""
	}
	var firstID, prevID string
	for i, s := range stmts {
		p := parent
		if i > 0 {
			pid := prevID
			p = &pid
		}
		id := e.emitBlock(s, p, target, topLevel && i == 0)
		if i == 0 {
			firstID = id
		} else if prevBlock, ok := target.Blocks[prevID]; ok {
			nid := id
			prevBlock.Next = &nid
		}
		prevID = id
	}
	return firstID
}

func (e *Emitter) emitCommand(stmt *entities.ASTBlock, parent *string, target *entities.Target, topLevel bool) string {
	desc := stmt.Command
	id := e.symbols.IDs.Next("block")
	x, y := 0, 0
	if topLevel {
		x = e.stackCount * e.symbols.StackSpacing
	}

	inputs := map[string][]any{}
	fields := map[string][]any{}
	for _, spec := range desc.Args {
		val, ok := stmt.Args[spec.Name]
		if !ok {
			continue
		}
		e.emitSlot(spec, val, id, target, inputs, fields)
	}

	block := &entities.TargetBlock{
		Opcode:   desc.Opcode,
		Parent:   parent,
		Inputs:   inputs,
		Fields:   fields,
		TopLevel: topLevel,
		X:        x,
		Y:        y,
	}
	target.Blocks[id] = block

	if sub1, ok := stmt.Args["SUBSTACK"]; ok {
		firstID := e.emitChain(sub1.Substack, strPtr(id), target, false)
		inputs["SUBSTACK"] = []any{2, firstID}
	}
	if sub2, ok := stmt.Args["SUBSTACK2"]; ok {
		firstID := e.emitChain(sub2.Substack, strPtr(id), target, false)
		inputs["SUBSTACK2"] = []any{2, firstID}
	}

	if stmt.Comment != "" {
		e.attachComment(id, stmt.Comment, target)
	}

	return id
}

func strPtr(s string) *string { return &s }

func (e *Emitter) emitSlot(spec entities.ArgSpec, val entities.ArgValue, blockID string, target *entities.Target, inputs, fields map[string][]any) {
	if spec.Kind == entities.ArgField {
		fields[spec.Name] = []any{val.Str, nil}
		return
	}

	switch val.Kind {
	case entities.ArgValueString:
		if spec.MenuRef != "" {
			inputs[spec.Name] = []any{1, e.emitMenuShadow(spec.MenuRef, val.Str, blockID, target)}
			return
		}
		inputs[spec.Name] = []any{1, []any{10, val.Str}}
	case entities.ArgValueNumber:
		if spec.MenuRef != "" {
			inputs[spec.Name] = []any{1, e.emitMenuShadow(spec.MenuRef, formatNumber(val.Num), blockID, target)}
			return
		}
		inputs[spec.Name] = []any{1, []any{4, val.Num}}
	case entities.ArgValueVariable:
		info, _ := e.symbols.Variable(val.Str)
		e.ensureMonitor("default", info.Name, info.ID, target)
		target.Variables[info.ID] = [2]any{info.Name, 0}
		inputs[spec.Name] = []any{3, []any{12, info.Name, info.ID}, []any{10, ""}}
	case entities.ArgValueList:
		info, _ := e.symbols.List(val.Str)
		e.ensureMonitor("list", info.Name, info.ID, target)
		target.Lists[info.ID] = [2]any{info.Name, []any{}}
		inputs[spec.Name] = []any{3, []any{13, info.Name, info.ID}, []any{10, ""}}
	case entities.ArgValueBroadcast:
		info, _ := e.symbols.Broadcast(val.Str)
		target.Broadcasts[info.ID] = info.Name
		inputs[spec.Name] = []any{1, []any{11, info.Name, info.ID}}
	case entities.ArgValueReporter:
		id := e.emitBlock(val.Reporter, strPtr(blockID), target, false)
		if spec.Boolean {
			inputs[spec.Name] = []any{2, id}
		} else {
			inputs[spec.Name] = []any{3, id, []any{10, ""}}
		}
	case entities.ArgValueProcArg:
		id := e.emitProcArgReporter(val.Str, blockID, target)
		inputs[spec.Name] = []any{3, id, []any{10, ""}}
	}
}

func (e *Emitter) ensureMonitor(mode, name, id string, target *entities.Target) {
	for _, m := range e.symbols.Monitors {
		if m.SymbolID == id {
			return
		}
	}
	e.symbols.AddMonitor(mode, e.sprite, name, id)
}

func (e *Emitter) emitMenuShadow(opcode, value, parentID string, target *entities.Target) string {
	id := e.symbols.IDs.Next("block")
	target.Blocks[id] = &entities.TargetBlock{
		Opcode: opcode,
		Parent: strPtr(parentID),
		Fields: map[string][]any{menuFieldName(opcode): {value, nil}},
		Inputs: map[string][]any{},
		Shadow: true,
	}
	return id
}

// menuFieldName guesses the field name a generated menu shadow block uses.
// The reference catalog's menu opcodes are consistently named <x>_menu with
// a single field holding the dropdown's current choice; by convention that
// field is the uppercased prefix before "_menu". Pen-extension menus are the
// one exception: their field name keeps the original's mixed case instead.
func menuFieldName(opcode string) string {
	name := strings.TrimSuffix(opcode, "_menu")
	if idx := strings.LastIndexByte(name, '_'); idx >= 0 {
		name = name[idx+1:]
	}
	if strings.Contains(opcode, "pen_") {
		return name
	}
	return strings.ToUpper(name)
}

func (e *Emitter) emitProcArgReporter(name, parentID string, target *entities.Target) string {
	opcode := "argument_reporter_string_number"
	if e.currentProcArgBool[name] {
		opcode = "argument_reporter_boolean"
	}
	id := e.symbols.IDs.Next("block")
	target.Blocks[id] = &entities.TargetBlock{
		Opcode: opcode,
		Parent: strPtr(parentID),
		Fields: map[string][]any{"VALUE": {name, nil}},
		Inputs: map[string][]any{},
	}
	return id
}

func (e *Emitter) attachComment(blockID, text string, target *entities.Target) {
	id := e.symbols.IDs.Next("comment")
	target.Comments[id] = &entities.TargetComment{
		BlockID: strPtr(blockID),
		Width:   200,
		Height:  200,
		X:       e.symbols.CommentOffset,
		Y:       e.symbols.CommentOffset,
		Text:    text,
	}
}

func (e *Emitter) emitProcDef(stmt *entities.ASTBlock, parent *string, target *entities.Target, topLevel bool) string {
	proc := e.symbols.Procedure(stmt.ProcName)
	proc.ArgNames = stmt.ProcArgNames
	proc.ArgIsBool = stmt.ProcArgTypes
	proc.Warp = stmt.ProcWarp
	proc.ProcCode = buildProcCode(stmt.ProcName, stmt.ProcArgNames, stmt.ProcArgTypes)
	proc.Defined = true

	defID := e.symbols.IDs.Next("block")
	protoID := e.symbols.IDs.Next("block")
	proc.DefID, proc.PrototypeID = defID, protoID

	x := e.stackCount * e.symbols.StackSpacing
	target.Blocks[defID] = &entities.TargetBlock{
		Opcode:   "procedures_definition",
		Parent:   parent,
		TopLevel: topLevel,
		X:        x,
		Inputs:   map[string][]any{"custom_block": {1, protoID}},
		Fields:   map[string][]any{},
	}

	protoInputs := map[string][]any{}
	argIDs := make([]string, len(stmt.ProcArgNames))
	argDefaults := make([]string, len(stmt.ProcArgNames))

	prevArgBool := e.currentProcArgBool
	e.currentProcArgBool = make(map[string]bool, len(stmt.ProcArgNames))

	for i, name := range stmt.ProcArgNames {
		isBool := stmt.ProcArgTypes[i]
		e.currentProcArgBool[name] = isBool
		argID := e.symbols.IDs.Next("arg")
		argIDs[i] = argID

		opcode := "argument_reporter_string_number"
		def := ""
		if isBool {
			opcode = "argument_reporter_boolean"
			def = "false"
		}
		argDefaults[i] = def

		shadowID := e.symbols.IDs.Next("block")
		target.Blocks[shadowID] = &entities.TargetBlock{
			Opcode: opcode,
			Parent: strPtr(protoID),
			Fields: map[string][]any{"VALUE": {name, nil}},
			Inputs: map[string][]any{},
			Shadow: true,
		}
		protoInputs[argID] = []any{1, shadowID}
	}
	proc.ArgIDs = argIDs

	target.Blocks[protoID] = &entities.TargetBlock{
		Opcode: "procedures_prototype",
		Parent: strPtr(defID),
		Inputs: protoInputs,
		Fields: map[string][]any{},
		Shadow: true,
		Mutation: &entities.BlockMutation{
			TagName:          "mutation",
			Children:         []any{},
			Proccode:         proc.ProcCode,
			Argumentids:      bracketJoin(argIDs),
			Argumentnames:    bracketJoin(stmt.ProcArgNames),
			Argumentdefaults: bracketJoin(argDefaults),
			Warp:             boolStr(proc.Warp),
		},
	}

	body := stmt.Args["SUBSTACK"].Substack
	firstID := e.emitChain(body, strPtr(defID), target, false)
	if firstID != "" {
		target.Blocks[defID].Next = strPtr(firstID)
	}

	e.currentProcArgBool = prevArgBool

	if stmt.Comment != "" {
		e.attachComment(defID, stmt.Comment, target)
	}

	return defID
}

func (e *Emitter) emitProcCall(stmt *entities.ASTBlock, parent *string, target *entities.Target, topLevel bool) string {
	proc, ok := e.symbols.Procedures[stmt.ProcName]
	if !ok || !proc.Defined {
		e.pendingCalls = append(e.pendingCalls, entities.PendingProcCall{
			ProcName: stmt.ProcName,
			CallArgs: stmt.Args,
			Line:     stmt.SourceLine,
			Sprite:   e.sprite,
		})
		proc = &entities.ProcedureInfo{Name: stmt.ProcName}
	}

	id := e.symbols.IDs.Next("block")
	x := 0
	if topLevel {
		x = e.stackCount * e.symbols.StackSpacing
	}

	inputs := map[string][]any{}
	for i, argName := range proc.ArgNames {
		val, has := stmt.Args[argName]
		if !has {
			e.reporter.Add(entities.KindArgCountMismatch, "missing argument "+argName+" in call to "+stmt.ProcName, stmt.ProcName, stmt.SourceLine)
			continue
		}
		spec := entities.ArgSpec{Name: argID(proc.ArgIDs, i), Kind: entities.ArgInput, Boolean: proc.ArgIsBool[i]}
		e.emitSlot(spec, val, id, target, inputs, map[string][]any{})
	}

	target.Blocks[id] = &entities.TargetBlock{
		Opcode:   "procedures_call",
		Parent:   parent,
		TopLevel: topLevel,
		X:        x,
		Inputs:   inputs,
		Fields:   map[string][]any{},
		Mutation: &entities.BlockMutation{
			TagName:     "mutation",
			Children:    []any{},
			Proccode:    proc.ProcCode,
			Argumentids: bracketJoin(proc.ArgIDs),
			Warp:        boolStr(proc.Warp),
		},
	}

	if stmt.Comment != "" {
		e.attachComment(id, stmt.Comment, target)
	}

	return id
}

func argID(ids []string, i int) string {
	if i < len(ids) {
		return ids[i]
	}
	return "arg-" + strconv.Itoa(i)
}

func buildProcCode(name string, argNames []string, argIsBool []bool) string {
	var b strings.Builder
	b.WriteString(name)
	for i := range argNames {
		b.WriteString(" ")
		if i < len(argIsBool) && argIsBool[i] {
			b.WriteString("%b")
		} else {
			b.WriteString("%s")
		}
	}
	return b.String()
}

func bracketJoin(items []string) string {
	var b strings.Builder
	b.WriteString("[")
	for i, item := range items {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"`)
		b.WriteString(strings.ReplaceAll(item, `"`, `\"`))
		b.WriteString(`"`)
	}
	b.WriteString("]")
	return b.String()
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
