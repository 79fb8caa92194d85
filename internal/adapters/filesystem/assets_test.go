package filesystem

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, root, sprite, kind, filename string, data []byte) {
	t.Helper()
	dir := filepath.Join(root, "assets", sprite, kind)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), data, 0o644))
}

func TestAssetProbeResolvesCostumeByStem(t *testing.T) {
	root := t.TempDir()
	data := []byte("fake png bytes")
	writeAsset(t, root, "Cat", "costumes", "idle.png", data)

	probe := NewAssetProbe(root)
	asset, err := probe.ResolveCostume(context.Background(), "Cat", "idle")
	require.NoError(t, err)

	sum := md5.Sum(data)
	wantHash := hex.EncodeToString(sum[:])
	assert.Equal(t, wantHash, asset.AssetID)
	assert.Equal(t, wantHash+".png", asset.MD5Ext)
	assert.Equal(t, "png", asset.DataFormat)
	assert.Equal(t, data, asset.Bytes)
}

func TestAssetProbeResolvesSoundByExactName(t *testing.T) {
	root := t.TempDir()
	data := []byte("fake wav bytes")
	writeAsset(t, root, "Cat", "sounds", "meow.wav", data)

	probe := NewAssetProbe(root)
	asset, err := probe.ResolveSound(context.Background(), "Cat", "meow.wav")
	require.NoError(t, err)
	assert.Equal(t, "wav", asset.DataFormat)
}

func TestAssetProbeErrorsOnMissingAsset(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "Cat", "costumes", "idle.png", []byte("x"))

	probe := NewAssetProbe(root)
	_, err := probe.ResolveCostume(context.Background(), "Cat", "missing")
	assert.Error(t, err)
}
