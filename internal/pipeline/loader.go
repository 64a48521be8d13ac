// Package pipeline turns catalog files into catalogs: decode, import, and
// optionally reuse a cached import for unchanged files.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/source"
)

// Options controls how catalog files are read.
type Options struct {
	Sheet  string
	Logger *log.Logger // nil disables logging
}

// LoadResult holds one imported catalog.
type LoadResult struct {
	Path      string
	Items     []model.CatalogItem
	Report    catalog.ImportReport
	FromCache bool
	LoadTime  time.Duration
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load decodes and imports a single catalog file.
func Load(path string, opts Options) (*LoadResult, error) {
	start := time.Now()

	rows, err := source.ReadFile(path, source.ReadOptions{Sheet: opts.Sheet})
	if err != nil {
		return nil, err
	}

	items, report, err := catalog.Parse(rows)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}

	res := &LoadResult{
		Path:     path,
		Items:    items,
		Report:   report,
		LoadTime: time.Since(start),
	}
	logResult(opts.Logger, res)
	return res, nil
}

func logResult(logger *log.Logger, res *LoadResult) {
	if logger == nil {
		return
	}
	logger.Debug("catalog imported",
		"path", res.Path,
		"items", res.Report.Imported,
		"dropped", res.Report.Dropped(),
		"promo", res.Report.Promotional,
		"bad_price", res.Report.BadPrice,
		"cached", res.FromCache,
		"took", res.LoadTime,
	)
}

// DirResult holds the outcome of importing every catalog in a directory.
type DirResult struct {
	Files  []source.DiscoveredFile
	Loaded []*LoadResult // nil entry where the import failed
	Errors []error       // parallel to Files
}

// LoadDir imports every catalog file in dir using a bounded worker pool.
// Per-file failures are collected, not returned.
func LoadDir(dir string, opts Options, progressFn ProgressFunc) (*DirResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &DirResult{
		Files:  files,
		Loaded: make([]*LoadResult, len(files)),
		Errors: make([]error, len(files)),
	}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				result.Loaded[idx], result.Errors[idx] = Load(files[idx].Path, opts)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()
	return result, nil
}
