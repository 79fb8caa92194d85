package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

const spriteExt = ".knp"

// LoadSprites reads every <SpriteName>.knp file directly under projectDir
// into a SpriteInput, populating Costumes/Sounds from whatever files exist
// under assets/<sprite>/costumes and assets/<sprite>/sounds — every asset
// file present is treated as referenced, since .knp source carries no
// separate asset manifest.
func LoadSprites(projectDir string) (map[string]entities.SpriteInput, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("reading project directory %s: %w", projectDir, err)
	}

	sprites := map[string]entities.SpriteInput{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), spriteExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if err := entities.ValidateName(name); err != nil {
			return nil, fmt.Errorf("sprite name %q: %w", name, err)
		}
		source, err := os.ReadFile(filepath.Join(projectDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading sprite source %s: %w", entry.Name(), err)
		}

		sprites[name] = entities.SpriteInput{
			Name:     name,
			Source:   string(source),
			Costumes: listAssetNames(projectDir, name, "costumes"),
			Sounds:   listAssetNames(projectDir, name, "sounds"),
		}
	}

	if len(sprites) == 0 {
		return nil, fmt.Errorf("no %s sprite sources found in %s", spriteExt, projectDir)
	}
	return sprites, nil
}

func listAssetNames(projectDir, sprite, kind string) []string {
	dir := filepath.Join(projectDir, "assets", sprite, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}
