package entities

// VariableInfo records a declared variable and the monitor block shown for
// it on the stage, mirroring the reference implementation's _read_variable.
type VariableInfo struct {
	Name string
	ID   string
}

// ListInfo records a declared list.
type ListInfo struct {
	Name string
	ID   string
}

// BroadcastInfo records a declared broadcast message.
type BroadcastInfo struct {
	Name string
	ID   string
}

// Monitor is a stage-visible readout for a variable or list, created the
// first time that symbol is referenced.
type Monitor struct {
	ID         string
	Mode       string // "default" for variables, "list" for lists
	TargetName string // sprite the symbol belongs to, or "" for the Stage/global
	SymbolName string
	SymbolID   string
	X, Y       int
	Visible    bool
}

// ProcedureInfo tracks a custom-block procedure's declared shape so forward
// calls can be validated and later patched once the definition is parsed.
type ProcedureInfo struct {
	Name        string
	ArgNames    []string
	ArgIsBool   []bool
	ArgIDs      []string // procedures_prototype argumentids, in ArgNames order
	Warp        bool
	Defined     bool
	PrototypeID string // id of the procedures_prototype shadow block
	DefID       string // id of the procedures_definition hat block
	ProcCode    string // e.g. "foo %s %b"
}

// IDCounters allocates deterministic, monotonically increasing ids per kind,
// matching the reference implementation's _generate_id scheme.
type IDCounters struct {
	counters map[string]int
}

// NewIDCounters returns a ready-to-use, zeroed counter set.
func NewIDCounters() *IDCounters {
	return &IDCounters{counters: make(map[string]int)}
}

// Next returns the next id for the given kind, e.g. Next("block") -> "block-0",
// then "block-1", and so on. Defaults to kind "block" when kind is empty.
func (c *IDCounters) Next(kind string) string {
	if kind == "" {
		kind = "block"
	}
	n := c.counters[kind]
	c.counters[kind] = n + 1
	return idString(kind, n)
}

func idString(kind string, n int) string {
	return kind + "-" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// SymbolTables owns all of the per-compilation mutable state the Emitter
// accumulates: declared variables/lists/broadcasts/procedures, monitors, and
// id counters. Each compilation owns exactly one instance; nothing here is
// shared across concurrent compilations.
type SymbolTables struct {
	Variables  map[string]*VariableInfo
	Lists      map[string]*ListInfo
	Broadcasts map[string]*BroadcastInfo
	Procedures map[string]*ProcedureInfo
	Monitors   []*Monitor
	IDs        *IDCounters

	// StackSpacing and CommentOffset drive the layout: each top-level stack
	// is placed StackSpacing pixels to the right of the previous one, and
	// every comment is placed at (CommentOffset, CommentOffset), not relative
	// to its block or stack. The Emitter does not read StackCount,
	// StackHeight or StackWidth.
	StackCount    int
	StackHeight   int
	StackWidth    int
	StackSpacing  int
	CommentOffset int
}

// NewSymbolTables returns an empty, ready-to-use SymbolTables for one
// compilation.
func NewSymbolTables(stackSpacing, commentOffset int) *SymbolTables {
	return &SymbolTables{
		Variables:     make(map[string]*VariableInfo),
		Lists:         make(map[string]*ListInfo),
		Broadcasts:    make(map[string]*BroadcastInfo),
		Procedures:    make(map[string]*ProcedureInfo),
		IDs:           NewIDCounters(),
		StackSpacing:  stackSpacing,
		CommentOffset: commentOffset,
	}
}

// Variable returns (creating if necessary) the VariableInfo for name and
// reports whether it was newly created.
func (s *SymbolTables) Variable(name string) (*VariableInfo, bool) {
	if v, ok := s.Variables[name]; ok {
		return v, false
	}
	v := &VariableInfo{Name: name, ID: s.IDs.Next("var")}
	s.Variables[name] = v
	return v, true
}

// List returns (creating if necessary) the ListInfo for name.
func (s *SymbolTables) List(name string) (*ListInfo, bool) {
	if l, ok := s.Lists[name]; ok {
		return l, false
	}
	l := &ListInfo{Name: name, ID: s.IDs.Next("list")}
	s.Lists[name] = l
	return l, true
}

// Broadcast returns (creating if necessary) the BroadcastInfo for name.
func (s *SymbolTables) Broadcast(name string) (*BroadcastInfo, bool) {
	if b, ok := s.Broadcasts[name]; ok {
		return b, false
	}
	b := &BroadcastInfo{Name: name, ID: s.IDs.Next("broadcast")}
	s.Broadcasts[name] = b
	return b, true
}

// Procedure returns (creating if necessary) the ProcedureInfo for name.
func (s *SymbolTables) Procedure(name string) *ProcedureInfo {
	if p, ok := s.Procedures[name]; ok {
		return p
	}
	p := &ProcedureInfo{Name: name}
	s.Procedures[name] = p
	return p
}

// AddMonitor appends a variable or list monitor positioned below any
// existing monitors, matching the reference implementation's layout.
func (s *SymbolTables) AddMonitor(mode, targetName, symbolName, symbolID string) *Monitor {
	m := &Monitor{
		ID:         s.IDs.Next(mode + "monitor"),
		Mode:       mode,
		TargetName: targetName,
		SymbolName: symbolName,
		SymbolID:   symbolID,
		X:          5,
		Y:          5 + len(s.Monitors)*27,
		Visible:    false,
	}
	s.Monitors = append(s.Monitors, m)
	return m
}
