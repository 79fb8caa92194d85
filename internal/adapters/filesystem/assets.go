package filesystem

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/madstone-tech/katnipc/internal/core/entities"
	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// Ensure AssetProbe implements usecases.AssetProbe.
var _ usecases.AssetProbe = (*AssetProbe)(nil)

// AssetProbe resolves costume/sound references against an on-disk
// assets/<sprite>/costumes|sounds/ tree. It does no image/audio decoding
// of its own: a costume or sound's extension decides its dataFormat, and
// its content hash (matching the reference tool's md5ext convention) is
// computed over the raw file bytes.
type AssetProbe struct {
	// Root is the project directory; costumes/sounds are read from
	// Root/assets/<sprite>/costumes/<name>.<ext> and .../sounds/<name>.<ext>.
	Root string
}

// NewAssetProbe returns an AssetProbe rooted at a project directory.
func NewAssetProbe(root string) *AssetProbe {
	return &AssetProbe{Root: root}
}

// ResolveCostume reads assets/<sprite>/costumes/<name>.* and returns its
// asset record. name may omit the extension, in which case the directory
// is scanned for the first matching file stem.
func (p *AssetProbe) ResolveCostume(ctx context.Context, sprite, name string) (entities.Asset, error) {
	return p.resolve(sprite, "costumes", name)
}

// ResolveSound reads assets/<sprite>/sounds/<name>.* and returns its asset record.
func (p *AssetProbe) ResolveSound(ctx context.Context, sprite, name string) (entities.Asset, error) {
	return p.resolve(sprite, "sounds", name)
}

func (p *AssetProbe) resolve(sprite, kind, name string) (entities.Asset, error) {
	dir := filepath.Join(p.Root, "assets", sprite, kind)
	path, err := findAssetFile(dir, name)
	if err != nil {
		return entities.Asset{}, fmt.Errorf("resolving %s %q for sprite %q: %w", strings.TrimSuffix(kind, "s"), name, sprite, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Asset{}, fmt.Errorf("reading %s: %w", path, err)
	}

	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	return entities.Asset{
		AssetID:    hash,
		Name:       name,
		MD5Ext:     hash + "." + ext,
		DataFormat: ext,
		Bytes:      data,
	}, nil
}

// findAssetFile locates the file backing name within dir, trying an exact
// filename first and falling back to a stem match so sprite sources can
// reference costumes/sounds without naming their file extension.
func findAssetFile(dir, name string) (string, error) {
	exact := filepath.Join(dir, name)
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return exact, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading asset directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if stem == name {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no asset named %q found in %s", name, dir)
}
