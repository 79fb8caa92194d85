package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultCatalog(t *testing.T) {
	loader := NewLoader()
	cat, err := loader.Load(DefaultCatalogSource, false)
	require.NoError(t, err)
	require.NotNil(t, cat)

	desc, ok := cat.Lookup("motion.move")
	require.True(t, ok)
	assert.Equal(t, "motion_movesteps", desc.Opcode)
	require.Len(t, desc.Args, 1)
	assert.Equal(t, "STEPS", desc.Args[0].Name)
}

func TestLoadCatalogRejectsDuplicateCommand(t *testing.T) {
	loader := NewLoader()
	src := []byte(`motion|move|motion_movesteps|stack|-|i:STEPS:0:0:-:-
motion|move|motion_movesteps2|stack|-|i:STEPS:0:0:-:-
`)
	_, err := loader.Load(src, false)
	assert.Error(t, err)
}

func TestLoadCatalogAliasOverride(t *testing.T) {
	loader := NewLoader()
	src := []byte(`motion|move|motion_movesteps|stack|-|i:STEPS:0:0:-:-
looks|say|looks_say|stack|-|i:MESSAGE:0:0:-:-
---ALIASES---
motion.move=looks.say
`)
	_, err := loader.Load(src, false)
	assert.Error(t, err, "an alias name colliding with a real command requires allowAliasOverride")

	cat, err := loader.Load(src, true)
	require.NoError(t, err)
	desc, ok := cat.Lookup("motion.move")
	require.True(t, ok)
	assert.Equal(t, "looks_say", desc.Opcode)
}

func TestLoadCatalogParsesAliasTable(t *testing.T) {
	loader := NewLoader()
	cat, err := loader.Load(DefaultCatalogSource, false)
	require.NoError(t, err)

	aliases := cat.Aliases()
	for alias, target := range aliases {
		_, ok := cat.Lookup(target)
		assert.Truef(t, ok, "alias %s points at undefined command %s", alias, target)
	}
}
