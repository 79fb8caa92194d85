package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

func tokenize(t *testing.T, src string) ([]entities.Token, *ErrorReporter) {
	t.Helper()
	reporter := NewErrorReporter("test")
	lexer := NewLexer(reporter)
	tokens := lexer.Tokenize(src)
	return tokens, reporter
}

func TestLexerTokenizesBareFunctionCall(t *testing.T) {
	tokens, reporter := tokenize(t, `motion.moveSteps(10)`)
	require.False(t, reporter.HasErrors())
	require.Len(t, tokens, 2) // function + newline
	assert.Equal(t, entities.TokenFunction, tokens[0].Kind)
	assert.Equal(t, "motion.moveSteps", tokens[0].Name)
	assert.Equal(t, "10", tokens[0].Args)
}

func TestLexerTokenizesProcedureCallAndDef(t *testing.T) {
	tokens, reporter := tokenize(t, "fn.jump(height:10)\nfunc:jump(height) {\n}")
	require.False(t, reporter.HasErrors())

	var kinds []entities.TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, entities.TokenFunctionCall)
	assert.Contains(t, kinds, entities.TokenFunctionDef)
	assert.Contains(t, kinds, entities.TokenLCurly)
	assert.Contains(t, kinds, entities.TokenRCurly)
}

func TestLexerSplitsSemicolonsOutsideStrings(t *testing.T) {
	tokens, reporter := tokenize(t, `looks.say("hi; there"); looks.think("ok")`)
	require.False(t, reporter.HasErrors())

	var calls []string
	for _, tok := range tokens {
		if tok.Kind == entities.TokenFunction {
			calls = append(calls, tok.Name)
		}
	}
	assert.Equal(t, []string{"looks.say", "looks.think"}, calls)
}

func TestLexerReportsUnparsableStatement(t *testing.T) {
	_, reporter := tokenize(t, `this is not a call`)
	assert.True(t, reporter.HasErrors())
}

func TestLexerCapturesTrailingComment(t *testing.T) {
	tokens, reporter := tokenize(t, `motion.moveSteps(10) # walk forward`)
	require.False(t, reporter.HasErrors())

	var comment string
	for _, tok := range tokens {
		if tok.Kind == entities.TokenComment {
			comment = tok.Text
		}
	}
	assert.Equal(t, "walk forward", comment)
}

func TestLexerCapturesFuncTypeAnnotation(t *testing.T) {
	tokens, _ := tokenize(t, `func:isReady() -> %b {`)
	var funcType string
	for _, tok := range tokens {
		if tok.Kind == entities.TokenFuncType {
			funcType = tok.Text
		}
	}
	assert.Equal(t, "%b", funcType)
}

func TestTokenizeArgsLeafKinds(t *testing.T) {
	reporter := NewErrorReporter("test")
	lexer := NewLexer(reporter)

	args := lexer.TokenizeArgs(`$score, @l:highScores, "hello", 42, a.height`, 1)
	require.Len(t, args, 5)
	assert.Equal(t, entities.TokenArgVariable, args[0].Kind)
	assert.Equal(t, "score", args[0].Name)
	assert.Equal(t, entities.TokenArgList, args[1].Kind)
	assert.Equal(t, "highScores", args[1].Name)
	assert.Equal(t, entities.TokenArgString, args[2].Kind)
	assert.Equal(t, "hello", args[2].Text)
	assert.Equal(t, entities.TokenArgNumber, args[3].Kind)
	assert.Equal(t, entities.TokenArgProcArg, args[4].Kind)
	assert.False(t, reporter.HasErrors())
}

func TestTokenizeArgsOperatorAssociatesLeft(t *testing.T) {
	reporter := NewErrorReporter("test")
	lexer := NewLexer(reporter)

	args := lexer.TokenizeArgs(`10-3-2`, 1)
	require.Len(t, args, 1)
	root := args[0]
	require.Equal(t, "-", root.Operator)
	// left-associative: (10-3)-2, so the outer right operand is the leaf "2"
	// and the outer left operand is itself a "-" node.
	require.NotNil(t, root.Left)
	require.NotNil(t, root.Right)
	assert.Equal(t, "-", root.Left.Operator)
	assert.Equal(t, entities.TokenArgNumber, root.Right.Kind)
	assert.Equal(t, "2", root.Right.Text)
}

func TestTokenizeArgsUnaryMinusNotTreatedAsOperator(t *testing.T) {
	reporter := NewErrorReporter("test")
	lexer := NewLexer(reporter)

	args := lexer.TokenizeArgs(`-5`, 1)
	require.Len(t, args, 1)
	assert.Equal(t, entities.TokenArgNumber, args[0].Kind)
	assert.Equal(t, "-5", args[0].Text)
}

func TestTokenizeArgsNestedReporter(t *testing.T) {
	reporter := NewErrorReporter("test")
	lexer := NewLexer(reporter)

	args := lexer.TokenizeArgs(`operator.add(1, 2)`, 1)
	require.Len(t, args, 1)
	assert.Equal(t, entities.TokenArgReporter, args[0].Kind)
	assert.Equal(t, "operator.add", args[0].ReporterName)
	assert.Equal(t, "1, 2", args[0].ReporterArgs)
}
