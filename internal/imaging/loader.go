package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cachedImage is a decoded image together with the format name reported by
// the decoder and the file state it was decoded from.
type cachedImage struct {
	img     image.Image
	format  string
	modTime time.Time
	size    int64
}

func (e cachedImage) matches(info os.FileInfo) bool {
	return e.modTime.Equal(info.ModTime()) && e.size == info.Size()
}

// ImageCache keeps decoded map images in memory so repeated field requests on
// the same file skip disk I/O and decoding.
//
// Entries are keyed by absolute, cleaned path, so "maps/a.png" and
// "./maps/a.png" share one entry. ImageCache is safe for concurrent use.
//
// Every Load stats the file; an entry whose modification time or size no
// longer matches is decoded again, so edits to a map are picked up without a
// restart.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load returns the decoded image at path, reading it from disk on first use
// and again whenever the file changes. Supported formats are PNG, JPEG and GIF.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	key, err := cacheKey(path)
	if err != nil {
		return cachedImage{}, err
	}

	info, err := os.Stat(key)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	entry, ok := c.images[key]
	c.mu.RUnlock()
	if ok && entry.matches(info) {
		return entry, nil
	}

	f, err := os.Open(key)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	entry = cachedImage{img: img, format: format, modTime: info.ModTime(), size: info.Size()}
	c.mu.Lock()
	c.images[key] = entry
	c.mu.Unlock()

	return entry, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func cacheKey(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("image path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve image path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// DimensionsResult describes a source image before it is turned into a grid.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder name: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// Cells is Width×Height, the grid size at full resolution.
	Cells int `json:"cells"`
}

// GetDimensions reports the size and format of an image file.
//
// Parameters:
//   - cache: The cache to load through; the image stays cached afterwards.
//   - path: Path to a PNG, JPEG or GIF file.
//
// Returns:
//   - *DimensionsResult: Width, height, decoder format and full-resolution
//     cell count.
//   - error: Non-nil if the file cannot be opened or decoded.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	bounds := entry.img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: entry.format,
		Cells:  bounds.Dx() * bounds.Dy(),
	}, nil
}
