package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/splatcam/internal/gallery"
	"github.com/jask/splatcam/internal/viewer"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPLATCAM_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Gallery.MinImages)
	require.Equal(t, 50*time.Millisecond, cfg.Processing.Interval)
	require.Equal(t, viewer.SampleAssetURL, cfg.Viewer.AssetURL)
	require.Equal(t, int64(256<<20), cfg.Viewer.MaxAssetBytes())
	p, err := cfg.DedupPolicy()
	require.NoError(t, err)
	require.Equal(t, gallery.DedupContent, p)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splatcam.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[gallery]
min_images = 5
dedup = "identity"

[processing]
interval = "5ms"
`), 0o644))
	t.Setenv("SPLATCAM_CONFIG", path)
	t.Setenv("SPLATCAM_VIEWER_ASSET_URL", "file:///tmp/scene.splat")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Gallery.MinImages)
	require.Equal(t, "identity", cfg.Gallery.Dedup)
	require.Equal(t, 5*time.Millisecond, cfg.Processing.Interval)
	require.Equal(t, "file:///tmp/scene.splat", cfg.Viewer.AssetURL)
}

func TestLoadRejectsBadDedup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[gallery]\ndedup = \"md5\"\n"), 0o644))
	t.Setenv("SPLATCAM_CONFIG", path)

	_, err := Load()
	require.ErrorContains(t, err, "gallery.dedup")
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", "config.toml")
	t.Setenv("SPLATCAM_CONFIG", path)
	t.Setenv("SPLATCAM_GALLERY_MIN_IMAGES", "6")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 6, cfg.Gallery.MinImages)
	require.Equal(t, viewer.SampleAssetURL, cfg.Viewer.AssetURL)
	require.Equal(t, path, Path())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[gallery\nmin_images = "), 0o644))
	t.Setenv("SPLATCAM_CONFIG", path)

	_, err := Load()
	require.ErrorContains(t, err, "read config")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("SPLATCAM_CONFIG", path)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Gallery.MinImages = 4

	written, err := Save(cfg)
	require.NoError(t, err)
	require.Equal(t, path, written)

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, 4, again.Gallery.MinImages)
	require.Equal(t, cfg.Viewer.AssetURL, again.Viewer.AssetURL)
}
