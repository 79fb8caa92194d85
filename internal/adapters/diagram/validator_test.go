package diagram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAcyclicAcceptsAcyclicGraph(t *testing.T) {
	src := "direction: down\n\na: \"motion_movesteps\"\nb: \"looks_say\"\na -> b\n"

	v := NewValidator()
	err := v.CheckAcyclic(context.Background(), src)
	assert.NoError(t, err)
}

func TestCheckAcyclicDetectsCycle(t *testing.T) {
	src := "direction: down\n\na: \"motion_movesteps\"\nb: \"control_repeat\"\na -> b\nb -> a\n"

	v := NewValidator()
	err := v.CheckAcyclic(context.Background(), src)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestCheckAcyclicAcceptsEmptySource(t *testing.T) {
	v := NewValidator()
	err := v.CheckAcyclic(context.Background(), "   ")
	assert.NoError(t, err)
}
