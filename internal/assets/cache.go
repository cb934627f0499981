// Package assets caches product images on disk under stable, locally
// generated identifiers. An image is downloaded at most once per product
// identity; after that the assigned id is returned without touching the
// network, even when the remote URL drifts.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"StoreWatch/utils"
)

// AssetFetchError reports a failed image download or write for one
// product. It drops only that product from the current cycle; the product
// stays absent from the store and is retried next cycle.
type AssetFetchError struct {
	Name string
	URL  string
	Err  error
}

func (e *AssetFetchError) Error() string {
	return fmt.Sprintf("asset fetch for %q (%s): %v", e.Name, e.URL, e.Err)
}

func (e *AssetFetchError) Unwrap() error { return e.Err }

// Cache persists product images in a flat directory as {imageId}{ext}.
type Cache struct {
	Dir    string
	Client *http.Client
}

// NewCache creates the asset directory if needed and returns a cache whose
// downloads are bounded by timeout.
func NewCache(dir string, timeout time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &Cache{Dir: dir, Client: &http.Client{Timeout: timeout}}, nil
}

// ResolveImage returns the stable image id for the product. knownIDs is
// the name-to-imageId snapshot taken from the store at cycle start: a hit
// there is returned unchanged with no network call, which keeps ids stable
// and avoids re-downloading unchanged images every cycle. On a miss a
// fresh id is generated, the image downloaded and persisted.
func (c *Cache) ResolveImage(ctx context.Context, knownIDs map[string]string, name, normalizedURL string) (string, error) {
	if id, ok := knownIDs[name]; ok && id != "" {
		return id, nil
	}

	// UUIDv4 carries 122 random bits, collision-resistant enough to double
	// as a filename stem.
	imageID := uuid.NewString()
	ext := extensionFor(normalizedURL)

	if err := c.download(ctx, normalizedURL, filepath.Join(c.Dir, imageID+ext)); err != nil {
		return "", &AssetFetchError{Name: name, URL: normalizedURL, Err: err}
	}
	return imageID, nil
}

// ClearAll deletes every cached asset. Called once at startup when the
// product store is empty, so a cleared store does not leave orphaned
// images from a previous life behind.
func (c *Cache) ClearAll() error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return fmt.Errorf("read asset dir %s: %w", c.Dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.Dir, entry.Name())); err != nil {
			return fmt.Errorf("remove asset %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (c *Cache) download(ctx context.Context, imageURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func extensionFor(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ".jpg"
	}
	return utils.ImageExtFromPath(u.Path)
}
