package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/spesa/internal/store"
)

// LoadWithCache returns the cached import for path when the file is
// unchanged since it was cached, and imports and caches it otherwise.
// Cache write failures are logged and do not fail the load.
func LoadWithCache(path string, opts Options, cache *store.Cache) (*LoadResult, error) {
	start := time.Now()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_ = cache.Delete(abs)
		}
		return nil, err
	}
	fi := store.FileInfo{
		Sheet:     opts.Sheet,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}

	entry, ok, err := cache.Lookup(abs, fi)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	if ok {
		res := &LoadResult{
			Path:      path,
			Items:     entry.Items,
			Report:    entry.Report,
			FromCache: true,
			LoadTime:  time.Since(start),
		}
		logResult(opts.Logger, res)
		return res, nil
	}

	res, err := Load(path, opts)
	if err != nil {
		return nil, err
	}

	if err := cache.Save(abs, fi, store.Entry{Items: res.Items, Report: res.Report}); err != nil && opts.Logger != nil {
		opts.Logger.Warn("catalog cache write failed", "path", abs, "err", err)
	}
	return res, nil
}

// LoadFile imports path, going through the parse cache at CachePath when
// useCache is set. An unusable cache falls back to a plain import.
func LoadFile(path string, opts Options, useCache bool) (*LoadResult, error) {
	if useCache {
		cache, err := store.Open(CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			res, loadErr := LoadWithCache(path, opts, cache)
			if loadErr == nil {
				return res, nil
			}
		} else if opts.Logger != nil {
			opts.Logger.Debug("catalog cache unavailable", "err", err)
		}
	}
	return Load(path, opts)
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "spesa")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "spesa")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "catalogs.db")
}
