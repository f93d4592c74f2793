package wallpapers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG signature plus IHDR, enough for content sniffing
var pngHeader = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
}

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "default-wallpaper.png", pngHeader)
	writeFile(t, root, "nature/forest_morning.PNG", pngHeader)
	writeFile(t, root, "fake.jpg", []byte("not an image at all"))
	writeFile(t, root, "notes.txt", []byte("hello"))

	c := New(root, "/wallpapers/")
	n, err := c.Scan(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	images := c.List()
	require.Len(t, images, 2)
	assert.Equal(t, "/wallpapers/default-wallpaper.png", images[0].Ref)
	assert.Equal(t, "Default Wallpaper", images[0].Title)
	assert.Equal(t, "image/png", images[0].MIME)
	assert.Equal(t, "/wallpapers/nature/forest_morning.PNG", images[1].Ref)

	img, ok := c.Lookup("/wallpapers/nature/forest_morning.PNG")
	require.True(t, ok)
	assert.Equal(t, "Forest Morning", img.Title)

	_, ok = c.Lookup("/wallpapers/fake.jpg")
	assert.False(t, ok)
}

func TestScanRejectsBadPattern(t *testing.T) {
	_, err := New(t.TempDir(), "/w").Scan(context.Background(), "[")
	assert.Error(t, err)
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.png", pngHeader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(root, "/w").Scan(ctx, "")
	assert.Error(t, err)
}

func TestTitleFromName(t *testing.T) {
	assert.Equal(t, "Mountain Landscape", TitleFromName("mountain-landscape.jpg"))
	assert.Equal(t, "City Lights At Night", TitleFromName("city_lights at-night.webp"))
}
