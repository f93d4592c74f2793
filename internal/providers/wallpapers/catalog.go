// Package wallpapers indexes the image files offered by the gallery and
// wallpaper settings panels.
package wallpapers

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultPattern selects image files at any depth
const DefaultPattern = "**/*.{jpg,jpeg,png,webp,gif}"

// Image is a selectable wallpaper
type Image struct {
	Ref   string `json:"ref"`
	Title string `json:"title"`
	MIME  string `json:"mime"`
	Bytes int64  `json:"bytes"`
}

// Catalog is the result of scanning an image directory
type Catalog struct {
	mu     sync.RWMutex
	root   string
	prefix string
	images []Image
	byRef  map[string]Image
}

// New creates an empty catalog serving files under root at URL prefix
func New(root, prefix string) *Catalog {
	return &Catalog{
		root:   root,
		prefix: strings.TrimSuffix(prefix, "/"),
		byRef:  make(map[string]Image),
	}
}

// Root returns the scanned directory
func (c *Catalog) Root() string {
	return c.root
}

// Scan walks the root and replaces the catalog contents. Files matching
// pattern whose content is not an image are skipped.
func (c *Catalog) Scan(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return 0, fmt.Errorf("invalid wallpaper pattern %q", pattern)
	}

	var (
		mu     sync.Mutex
		images []Image
	)
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, c.root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(pattern, strings.ToLower(rel)); !ok {
			return nil
		}

		mtype, err := mimetype.DetectFile(p)
		if err != nil || !strings.HasPrefix(mtype.String(), "image/") {
			return nil
		}

		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}

		img := Image{
			Ref:   c.prefix + "/" + rel,
			Title: TitleFromName(path.Base(rel)),
			MIME:  mtype.String(),
			Bytes: size,
		}
		mu.Lock()
		images = append(images, img)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", c.root, err)
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Ref < images[j].Ref })
	byRef := make(map[string]Image, len(images))
	for _, img := range images {
		byRef[img.Ref] = img
	}

	c.mu.Lock()
	c.images = images
	c.byRef = byRef
	c.mu.Unlock()

	return len(images), nil
}

// List returns all images sorted by reference
func (c *Catalog) List() []Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Image(nil), c.images...)
}

// Lookup finds an image by reference
func (c *Catalog) Lookup(ref string) (Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.byRef[ref]
	return img, ok
}

// TitleFromName turns "mountain-landscape.jpg" into "Mountain Landscape"
func TitleFromName(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
