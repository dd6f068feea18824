package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/streambinder/albumfix/processor"
)

const timeout = 10 * time.Second

// Downloader fetches cover artworks, caching them in memory
// for the lifetime of the value and, if CacheDir is set, on disk.
type Downloader struct {
	Client   *http.Client
	CacheDir string
	Artwork  processor.Artwork

	mutex  sync.Mutex
	memory map[string][]byte
}

type StatusError struct {
	URL  string
	Code int
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", err.URL, err.Code)
}

func New(cacheDir string, artwork processor.Artwork) *Downloader {
	return &Downloader{
		Client:   &http.Client{Timeout: timeout},
		CacheDir: cacheDir,
		Artwork:  artwork,
	}
}

// CachePath returns where the artwork at url is cached on disk:
// covers bounded to different sizes never share a cache entry.
func (downloader *Downloader) CachePath(url string) string {
	name := slug.Make(path.Base(url))
	if downloader.Artwork.MaxSize > 0 {
		name = fmt.Sprintf("%s-%dpx", name, downloader.Artwork.MaxSize)
	}
	return filepath.Join(downloader.CacheDir, name+".jpg")
}

func (downloader *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := downloader.remembered(url); ok {
		return data, nil
	}

	if len(downloader.CacheDir) > 0 {
		if data, err := os.ReadFile(downloader.CachePath(url)); err == nil {
			downloader.remember(url, data)
			return data, nil
		}
	}

	data, err := downloader.get(ctx, url)
	if err != nil {
		return nil, err
	}

	data, err = downloader.Artwork.Do(data)
	if err != nil {
		return nil, err
	}

	if len(downloader.CacheDir) > 0 {
		if err := os.MkdirAll(downloader.CacheDir, 0o755); err == nil {
			// a failed cache write only costs a download next time
			_ = os.WriteFile(downloader.CachePath(url), data, 0o644)
		}
	}
	downloader.remember(url, data)
	return data, nil
}

func (downloader *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := downloader.Client
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: response.StatusCode}
	}
	return io.ReadAll(response.Body)
}

func (downloader *Downloader) remembered(url string) ([]byte, bool) {
	downloader.mutex.Lock()
	defer downloader.mutex.Unlock()
	data, ok := downloader.memory[url]
	return data, ok
}

func (downloader *Downloader) remember(url string, data []byte) {
	downloader.mutex.Lock()
	defer downloader.mutex.Unlock()
	if downloader.memory == nil {
		downloader.memory = make(map[string][]byte)
	}
	downloader.memory[url] = data
}
