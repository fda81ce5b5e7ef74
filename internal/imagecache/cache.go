// Package imagecache fetches and decodes post thumbnails, keeping them in a
// byte-bounded in-memory LRU with an optional disk layer underneath. All
// concurrent requests for the same URL share a single network fetch.
package imagecache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	// Registered decoders for the formats Reddit serves previews in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	lru "github.com/hashicorp/golang-lru/v2"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBudgetBytes bounds the decoded pixel data held in memory
	DefaultBudgetBytes = 64 << 20

	// maxEntries is a generous cap on entry count; the byte budget is the
	// real limit and evicts well before this is reached.
	maxEntries = 4096

	// maxImageBytes bounds how much of a response body we are willing to
	// read. Anything larger is not a thumbnail.
	maxImageBytes = 20 << 20

	fetchTimeout  = 20 * time.Second
	bytesPerPixel = 4
	diskFilePerm  = 0o644
	diskDirPerm   = 0o755
)

type entry struct {
	img  image.Image
	size int64
}

// Cache resolves image URLs to decoded images. Safe for concurrent use.
type Cache struct {
	httpClient *http.Client
	group      singleflight.Group
	logger     *slog.Logger
	dir        string

	mu     sync.Mutex
	lru    *lru.Cache[string, entry]
	bytes  int64
	budget int64
}

// New creates a cache bounded to budget bytes of decoded image data. dir, if
// non-empty, enables a disk layer of encoded originals keyed by URL hash;
// it is created on first use and failures there only cost re-downloads.
func New(budget int64, dir string, logger *slog.Logger) (*Cache, error) {
	if budget <= 0 {
		budget = DefaultBudgetBytes
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
		dir:        dir,
		budget:     budget,
	}

	// The evict callback runs synchronously inside Add/RemoveOldest, which
	// are always called with c.mu held, so touching c.bytes here is safe.
	cache, err := lru.NewWithEvict[string, entry](maxEntries, func(_ string, e entry) {
		c.bytes -= e.size
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create lru cache")
	}
	c.lru = cache

	if dir != "" {
		if err := os.MkdirAll(dir, diskDirPerm); err != nil {
			logger.Warn("disk image cache disabled", "dir", dir, "err", err)
			c.dir = ""
		}
	}

	return c, nil
}

// GetOrFetch returns the image at url, from memory, disk, or the network, in
// that order. Concurrent callers asking for the same URL share one fetch.
func (c *Cache) GetOrFetch(ctx context.Context, url string) (image.Image, error) {
	if img, ok := c.lookup(url); ok {
		return img, nil
	}

	result, err, _ := c.group.Do(url, func() (interface{}, error) {
		// A fetch that completed while we queued behind the group lock
		// has already populated the cache.
		if img, ok := c.lookup(url); ok {
			return img, nil
		}

		if img, ok := c.loadFromDisk(url); ok {
			c.insert(url, img)
			return img, nil
		}

		data, err := c.download(ctx, url)
		if err != nil {
			return nil, err
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to decode image from %s", url)
		}

		c.writeToDisk(url, data)
		c.insert(url, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(image.Image), nil
}

// Len returns the number of images currently held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Bytes returns the approximate decoded size of the in-memory images.
func (c *Cache) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

func (c *Cache) lookup(url string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lru.Get(url); ok {
		return e.img, true
	}
	return nil, false
}

func (c *Cache) insert(url string, img image.Image) {
	size := decodedSize(img)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(url, entry{img: img, size: size})
	c.bytes += size

	// Evict oldest entries until back under budget. Keep at least the entry
	// just added so a single oversized image still renders.
	for c.bytes > c.budget && c.lru.Len() > 1 {
		c.lru.RemoveOldest()
	}
}

func decodedSize(img image.Image) int64 {
	bounds := img.Bounds()
	return int64(bounds.Dx()) * int64(bounds.Dy()) * bytesPerPixel
}

func (c *Cache) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create request for %s", url)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to fetch image from %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch from %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read image body from %s", url)
	}
	return data, nil
}

func (c *Cache) diskPath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}

func (c *Cache) loadFromDisk(url string) (image.Image, bool) {
	if c.dir == "" {
		return nil, false
	}

	data, err := os.ReadFile(c.diskPath(url))
	if err != nil {
		return nil, false
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Corrupt file; drop it so the next request re-downloads.
		os.Remove(c.diskPath(url))
		return nil, false
	}
	return img, true
}

func (c *Cache) writeToDisk(url string, data []byte) {
	if c.dir == "" {
		return
	}

	if err := os.WriteFile(c.diskPath(url), data, diskFilePerm); err != nil {
		c.logger.Warn("failed to write image to disk cache", "url", url, "err", err)
	}
}
