// Package catalog adapts the human-readable command-catalog text format
// into an entities.CommandCatalog, and embeds the default catalog shipped
// with katnipc.
package catalog

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/madstone-tech/katnipc/internal/core/entities"
	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// DefaultCatalogSource is the catalog text shipped with the binary, used
// whenever no --catalog flag or catalog.path config key overrides it.
//
//go:embed default_commands.txt
var DefaultCatalogSource []byte

// Ensure Loader implements usecases.CatalogLoader.
var _ usecases.CatalogLoader = (*Loader)(nil)

// Loader parses catalog source text into a CommandCatalog.
type Loader struct{}

// NewLoader returns a ready-to-use Loader.
func NewLoader() *Loader { return &Loader{} }

// aliasMarker separates the command table from the alias block.
const aliasMarker = "---ALIASES---"

// catalogRecord is the flat, per-line shape decoded via mapstructure before
// the argspecs mini-language (itself outside mapstructure's scope) is parsed
// by hand.
type catalogRecord struct {
	Section    string
	Name       string
	Opcode     string
	Shape      string
	ReturnType string
	ArgSpecs   string
}

// Load parses source (the default_commands.txt format) into a CommandCatalog.
func (l *Loader) Load(source []byte, allowAliasOverride bool) (*entities.CommandCatalog, error) {
	lines := strings.Split(string(source), "\n")

	var descriptors []*entities.CommandDescriptor
	aliases := map[string]string{}
	inAliases := false

	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == aliasMarker {
			inAliases = true
			continue
		}

		if inAliases {
			eq := strings.IndexByte(line, '=')
			if eq < 0 {
				return nil, fmt.Errorf("catalog line %d: malformed alias %q", lineNo+1, line)
			}
			alias := strings.TrimSpace(line[:eq])
			target := strings.TrimSpace(line[eq+1:])
			aliases[alias] = target
			continue
		}

		desc, err := parseCommandLine(line)
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", lineNo+1, err)
		}
		descriptors = append(descriptors, desc)
	}

	return entities.NewCommandCatalog(descriptors, aliases, allowAliasOverride)
}

func parseCommandLine(line string) (*entities.CommandDescriptor, error) {
	fields := strings.SplitN(line, "|", 6)
	if len(fields) != 6 {
		return nil, fmt.Errorf("expected 6 pipe-separated fields, got %d", len(fields))
	}

	var rec catalogRecord
	raw := map[string]any{
		"Section":    fields[0],
		"Name":       fields[1],
		"Opcode":     fields[2],
		"Shape":      fields[3],
		"ReturnType": fields[4],
		"ArgSpecs":   fields[5],
	}
	if err := mapstructure.Decode(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding catalog record: %w", err)
	}

	desc := &entities.CommandDescriptor{
		Section:    rec.Section,
		Name:       rec.Name,
		UseName:    rec.Section + "." + rec.Name,
		Opcode:     rec.Opcode,
		ReturnType: entities.ReturnType(rec.ReturnType),
	}
	if desc.ReturnType == "-" {
		desc.ReturnType = entities.ReturnNone
	}

	if rec.Shape == "MACRO" {
		desc.Macro = &entities.Macro{Template: strings.Split(rec.ArgSpecs, "~")}
		return desc, nil
	}
	desc.Shape = entities.Shape(rec.Shape)

	if rec.ArgSpecs != "-" {
		for _, spec := range strings.Split(rec.ArgSpecs, ";") {
			arg, err := parseArgSpec(spec, desc.Section)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", desc.UseName, err)
			}
			desc.Args = append(desc.Args, arg)
		}
	}
	return desc, nil
}

// parseArgSpec parses one "kind:NAME:boolean:broadcast:menuref:choices" slot
// descriptor.
func parseArgSpec(spec, section string) (entities.ArgSpec, error) {
	parts := strings.SplitN(spec, ":", 6)
	if len(parts) != 6 {
		return entities.ArgSpec{}, fmt.Errorf("malformed argspec %q", spec)
	}

	kind := entities.ArgInput
	switch parts[0] {
	case "i":
		kind = entities.ArgInput
	case "f":
		kind = entities.ArgField
	default:
		return entities.ArgSpec{}, fmt.Errorf("unknown slot kind %q in %q", parts[0], spec)
	}

	boolean, err := strconv.ParseBool(parts[2])
	if err != nil {
		return entities.ArgSpec{}, fmt.Errorf("malformed boolean flag in %q", spec)
	}
	broadcast, err := strconv.ParseBool(parts[3])
	if err != nil {
		return entities.ArgSpec{}, fmt.Errorf("malformed broadcast flag in %q", spec)
	}

	menuRef := parts[4]
	if menuRef == "-" {
		menuRef = ""
	}

	var choices []string
	if parts[5] != "-" {
		choices = strings.Split(parts[5], ",")
	}

	return entities.ArgSpec{
		Name:      parts[1],
		Kind:      kind,
		Boolean:   boolean,
		Broadcast: broadcast,
		MenuRef:   menuRef,
		Choices:   choices,
		Section:   section,
	}, nil
}
