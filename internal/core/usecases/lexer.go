package usecases

import (
	"strconv"
	"strings"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

// Lexer turns Katnip source text into a flat token stream. Statements are
// split on newlines and unquoted semicolons; each statement head is
// classified (functionCall/functionDef/function/bare brace) and its
// argument list is kept as raw text for later on-demand operator-precedence
// tokenization via TokenizeArgs, grounded on the reference tokenizer's
// per-line, per-argument two-stage approach.
type Lexer struct {
	reporter *ErrorReporter
}

// NewLexer returns a Lexer that reports errors through reporter.
func NewLexer(reporter *ErrorReporter) *Lexer {
	return &Lexer{reporter: reporter}
}

// Tokenize lexes source into a flat stream of entities.Token, accumulating
// errors into the Lexer's reporter rather than stopping at the first one.
func (l *Lexer) Tokenize(source string) []entities.Token {
	source = entities.ReplaceOutsideStrings(source, ";\n", "\n")
	source = entities.ReplaceOutsideStrings(source, ";", "\n")
	lines := strings.Split(source, "\n")

	var tokens []entities.Token
	for i, rawLine := range lines {
		lineNo := i + 1
		l.tokenizeLine(rawLine, lineNo, &tokens)
	}
	return tokens
}

func (l *Lexer) tokenizeLine(rawLine string, lineNo int, tokens *[]entities.Token) {
	code, comment := entities.StripComment(rawLine)
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}

	if strings.HasPrefix(code, "}") && code != "}" {
		*tokens = append(*tokens, entities.Token{Kind: entities.TokenRCurly, Line: lineNo})
		code = strings.TrimSpace(code[1:])
	}

	switch code {
	case "{":
		*tokens = append(*tokens, entities.Token{Kind: entities.TokenLCurly, Line: lineNo})
		return
	case "}":
		*tokens = append(*tokens, entities.Token{Kind: entities.TokenRCurly, Line: lineNo})
		return
	}

	trailingBrace := false
	body := code
	if strings.HasSuffix(body, "{") {
		trailingBrace = true
		body = strings.TrimSpace(strings.TrimSuffix(body, "{"))
	}

	funcType := ""
	if idx := entities.FirstOutsideStrings(body, "->"); idx >= 0 {
		funcType = strings.TrimSpace(body[idx+2:])
		body = strings.TrimSpace(body[:idx])
	}

	if body == "else" {
		*tokens = append(*tokens, entities.Token{Kind: entities.TokenFunction, Name: "else", Line: lineNo})
		if trailingBrace {
			*tokens = append(*tokens, entities.Token{Kind: entities.TokenLCurly, Line: lineNo})
		}
		return
	}

	call, ok := entities.ExtractCall(body)
	if !ok {
		l.reporter.Add(entities.KindSyntaxError, "expected a call of the form name(args)", code, lineNo)
		return
	}

	name := call.Name
	kind := entities.TokenFunction
	switch {
	case strings.HasPrefix(name, "fn."):
		kind = entities.TokenFunctionCall
		name = strings.TrimPrefix(name, "fn.")
	case strings.HasPrefix(name, "func:"):
		kind = entities.TokenFunctionDef
		name = strings.TrimPrefix(name, "func:")
	}

	if name == "" {
		l.reporter.Add(entities.KindSyntaxError, "missing command or procedure name", code, lineNo)
		return
	}

	*tokens = append(*tokens, entities.Token{Kind: kind, Name: name, Args: call.Args, Line: lineNo})

	if comment != "" {
		*tokens = append(*tokens, entities.Token{Kind: entities.TokenComment, Text: comment, Line: lineNo})
	}
	if funcType != "" {
		*tokens = append(*tokens, entities.Token{Kind: entities.TokenFuncType, Text: funcType, Line: lineNo})
	}
	if trailingBrace {
		*tokens = append(*tokens, entities.Token{Kind: entities.TokenLCurly, Line: lineNo})
	}
	*tokens = append(*tokens, entities.Token{Kind: entities.TokenNewline, Line: lineNo})
}

// TokenizeArgs splits a raw argument list on unquoted top-level commas and
// parses each argument expression into an ArgToken tree via operator
// precedence tiers.
func (l *Lexer) TokenizeArgs(args string, line int) []*entities.ArgToken {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil
	}
	parts := splitTopLevelArgs(args)
	out := make([]*entities.ArgToken, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, l.tokenizeArg(p, line))
	}
	return out
}

// TokenizeSingleArg tokenizes one already-isolated argument expression,
// exposed for the Parser's procedure-call kwarg values, which arrive as raw
// value text inside a TokenArgKwarg leaf.
func (l *Lexer) TokenizeSingleArg(text string, line int) *entities.ArgToken {
	return l.tokenizeArg(strings.TrimSpace(text), line)
}

// splitTopLevelArgs splits on commas that are not nested inside parens,
// brackets, or quoted strings.
func splitTopLevelArgs(s string) []string {
	var parts []string
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && (i == 0 || s[i-1] != '\\') {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// tokenizeArg resolves one argument expression, trying operator tiers
// lowest precedence first, then stripping one outer pair of grouping
// parentheses, before falling back to leaf recognition. The split point
// within a tier is the rightmost top-level operator, so that repeated
// same-tier operators associate left ("a-b-c" -> "(a-b)-c"),
// resolving the associativity ambiguity left open by the reference tool's
// string-surgery implementation.
func (l *Lexer) tokenizeArg(arg string, line int) *entities.ArgToken {
	arg = strings.TrimSpace(arg)

	if strings.HasPrefix(arg, "!") && !strings.HasPrefix(arg, "!=") {
		return &entities.ArgToken{Operator: "!", Right: l.tokenizeArg(arg[1:], line)}
	}

	for _, tier := range entities.OperatorTiers {
		if node, ok := l.splitTier(arg, tier, line); ok {
			return node
		}
	}

	if call, ok := entities.ExtractCall(arg); ok && call.Name == "" && strings.TrimSpace(call.Trailer) == "" {
		return l.tokenizeArg(call.Args, line)
	}

	return l.tokenizeLeaf(arg, line)
}

// splitTier finds the last top-level occurrence of any operator in tier and,
// if found, splits arg around it (left-associative within a tier).
func (l *Lexer) splitTier(arg string, tier []string, line int) (*entities.ArgToken, bool) {
	bestPos, bestOp := -1, ""
	depth := 0
	inString := false
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if c == '"' && (i == 0 || arg[i-1] != '\\') {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '(', '[':
			depth++
			continue
		case ')', ']':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		for _, op := range tier {
			if i+len(op) > len(arg) {
				continue
			}
			if arg[i:i+len(op)] != op {
				continue
			}
			if op == "-" && (i == 0 || isOperatorChar(arg[i-1])) {
				continue // unary minus, not a subtraction operator
			}
			if i > bestPos {
				bestPos, bestOp = i, op
			}
		}
	}
	if bestPos < 0 {
		return nil, false
	}
	left := strings.TrimSpace(arg[:bestPos])
	right := strings.TrimSpace(arg[bestPos+len(bestOp):])
	if left == "" || right == "" {
		return nil, false
	}
	return &entities.ArgToken{
		Operator: bestOp,
		Left:     l.tokenizeArg(left, line),
		Right:    l.tokenizeArg(right, line),
	}, true
}

func isOperatorChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '^', '<', '>', '=', '!', '&', '|', '(', ',':
		return true
	}
	return false
}

func (l *Lexer) tokenizeLeaf(arg string, line int) *entities.ArgToken {
	switch {
	case strings.HasPrefix(arg, "$"):
		return &entities.ArgToken{Kind: entities.TokenArgVariable, Name: arg[1:]}
	case strings.HasPrefix(arg, "@l:"):
		return &entities.ArgToken{Kind: entities.TokenArgList, Name: strings.TrimPrefix(arg, "@l:")}
	case strings.HasPrefix(arg, "@d:"):
		return &entities.ArgToken{Kind: entities.TokenArgDict, Name: strings.TrimPrefix(arg, "@d:")}
	case strings.HasPrefix(arg, "a."):
		return &entities.ArgToken{Kind: entities.TokenArgProcArg, Name: strings.TrimPrefix(arg, "a.")}
	case strings.HasPrefix(arg, "\"") && strings.HasSuffix(arg, "\"") && len(arg) >= 2:
		return &entities.ArgToken{Kind: entities.TokenArgString, Text: unescapeString(arg[1 : len(arg)-1])}
	case isReporterExpr(arg):
		call, ok := entities.ExtractCall(arg)
		if ok {
			return &entities.ArgToken{Kind: entities.TokenArgReporter, ReporterName: call.Name, ReporterArgs: call.Args}
		}
	case entities.IsNumericLiteral(arg):
		return &entities.ArgToken{Kind: entities.TokenArgNumber, Text: arg}
	}

	if colon := entities.FirstOutsideStrings(arg, ":"); colon > 0 {
		name := strings.TrimSpace(arg[:colon])
		val := strings.TrimSpace(arg[colon+1:])
		if isIdentifier(name) {
			return &entities.ArgToken{Kind: entities.TokenArgKwarg, Name: name, Text: val}
		}
	}

	if open := strings.IndexByte(arg, '['); open > 0 && strings.HasSuffix(arg, "]") {
		return &entities.ArgToken{Kind: entities.TokenArgDef, Name: arg[:open], DefType: arg[open+1 : len(arg)-1]}
	}

	if isBareLiteral(arg) {
		// An unquoted dropdown/field value, e.g. color in
		// pen.changeHue(color, 10). Treated as a string leaf; the Parser
		// validates it against the slot's declared choices, if any. A value
		// with a hyphen (left-right) is split as a subtraction before it gets
		// here, so such values are written quoted.
		return &entities.ArgToken{Kind: entities.TokenArgString, Text: arg}
	}

	l.reporter.Add(entities.KindSyntaxError, "invalid argument", arg, line)
	return &entities.ArgToken{Kind: entities.TokenArgString, Text: arg}
}

func isBareLiteral(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == ':' || r == '\'':
		default:
			return false
		}
	}
	return true
}

// isReporterExpr mirrors the reference tokenizer's _is_reporter heuristic:
// an argument is a nested reporter call if it contains both parens and does
// not itself begin with one (which would make it a parenthesized
// sub-expression instead, handled by tokenizeArg's grouping step).
func isReporterExpr(arg string) bool {
	return strings.Contains(arg, "(") && strings.Contains(arg, ")") && !strings.HasPrefix(arg, "(")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func unescapeString(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}

// ParseNumber converts a numeric literal token's text to a float64,
// returning 0 on malformed input. No diagnostic is reported for such input:
// the Lexer's IsNumericLiteral check is the only filter applied before this.
func ParseNumber(text string) float64 {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return f
}
