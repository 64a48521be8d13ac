// Package watch re-imports a catalog file whenever it changes on disk and
// reports what changed between imports.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/pipeline"
)

// Event types.
const (
	EventSnapshot = "snapshot"
	EventDelta    = "catalog_delta"
	EventError    = "error"
)

// Config controls the watcher runtime behavior.
type Config struct {
	Path         string
	Sheet        string
	UseCache     bool
	Debounce     time.Duration
	EventsBuffer int
	Logger       *log.Logger
}

// Snapshot is a compact description of one imported catalog.
type Snapshot struct {
	At       time.Time
	Items    int
	Dropped  int
	Cached   bool
	LoadTime time.Duration
}

// PriceChange records a code whose unit price moved between imports.
type PriceChange struct {
	Code string
	Old  decimal.Decimal
	New  decimal.Decimal
}

// Delta captures catalog differences between two imports.
type Delta struct {
	Added    []string
	Removed  []string
	Repriced []PriceChange
}

// IsZero reports whether the two imports were equivalent.
func (d Delta) IsZero() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Repriced) == 0
}

// Event is emitted whenever the watched catalog is re-imported.
// Items is the full fresh catalog; it is nil for error events.
type Event struct {
	ID        int64
	Type      string
	Timestamp time.Time
	Snapshot  Snapshot
	Delta     Delta
	Items     []model.CatalogItem
	Err       error
}

// Summary describes the event in one line.
func (e Event) Summary() string {
	switch e.Type {
	case EventSnapshot:
		src := "parsed"
		if e.Snapshot.Cached {
			src = "cache"
		}
		return fmt.Sprintf("%d products (%d skipped, %s)", e.Snapshot.Items, e.Snapshot.Dropped, src)
	case EventDelta:
		return fmt.Sprintf("catalog changed: +%d -%d ~%d", len(e.Delta.Added), len(e.Delta.Removed), len(e.Delta.Repriced))
	case EventError:
		if e.Err == nil {
			return "import failed"
		}
		return "import failed: " + e.Err.Error()
	}
	return e.Type
}

// Status summarizes the watcher state.
type Status struct {
	StartedAt  time.Time
	LastLoadAt time.Time
	LoadCount  int64
	Path       string
	Current    Snapshot
	LastError  string
	EventCount int
}

// Service watches one catalog file.
type Service struct {
	cfg  Config
	path string

	mu          sync.RWMutex
	startedAt   time.Time
	lastLoadAt  time.Time
	loadCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	prices      map[string]decimal.Decimal
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a watcher for cfg.Path.
func New(cfg Config) *Service {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 100
	}

	path := cfg.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	return &Service{
		cfg:       cfg,
		path:      path,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run imports the catalog once, then re-imports it after every change until
// ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// The directory is watched so editors that save by rename are seen.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	s.reload()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !s.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.cfg.Debounce)
			} else {
				timer.Reset(s.cfg.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			s.reload()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger().Warn("watch error", "path", s.path, "err", err)
		}
	}
}

func (s *Service) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != s.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (s *Service) logger() *log.Logger {
	if s.cfg.Logger != nil {
		return s.cfg.Logger
	}
	return log.Default()
}

func (s *Service) reload() {
	res, err := s.load()
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastLoadAt = now
		s.loadCount++
		s.nextEventID++
		ev := Event{ID: s.nextEventID, Type: EventError, Timestamp: now, Err: err}
		s.mu.Unlock()

		s.logger().Warn("catalog reload failed", "path", s.path, "err", err)
		s.publishEvent(ev)
		return
	}

	snap := Snapshot{
		At:       now,
		Items:    len(res.Items),
		Dropped:  res.Report.Dropped(),
		Cached:   res.FromCache,
		LoadTime: res.LoadTime,
	}
	prices := priceIndex(res.Items)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.prices
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.prices = prices
	s.lastLoadAt = now
	s.loadCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
			Items:     res.Items,
		}
		publish = true
	} else {
		delta := diffCatalogs(prev, prices)
		if !delta.IsZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      EventDelta,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
				Items:     res.Items,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) load() (*pipeline.LoadResult, error) {
	opts := pipeline.Options{Sheet: s.cfg.Sheet, Logger: s.cfg.Logger}
	return pipeline.LoadFile(s.path, opts, s.cfg.UseCache)
}

// priceIndex maps each code to the price of its first occurrence.
func priceIndex(items []model.CatalogItem) map[string]decimal.Decimal {
	idx := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		if _, ok := idx[it.Code]; !ok {
			idx[it.Code] = it.UnitPrice
		}
	}
	return idx
}

func diffCatalogs(prev, curr map[string]decimal.Decimal) Delta {
	var d Delta
	for code, price := range curr {
		old, ok := prev[code]
		switch {
		case !ok:
			d.Added = append(d.Added, code)
		case !old.Equal(price):
			d.Repriced = append(d.Repriced, PriceChange{Code: code, Old: old, New: price})
		}
	}
	for code := range prev {
		if _, ok := curr[code]; !ok {
			d.Removed = append(d.Removed, code)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Slice(d.Repriced, func(i, j int) bool { return d.Repriced[i].Code < d.Repriced[j].Code })
	return d
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Events returns the buffered events, oldest first.
func (s *Service) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// Status returns the current watcher state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:  s.startedAt,
		LastLoadAt: s.lastLoadAt,
		LoadCount:  s.loadCount,
		Path:       s.path,
		Current:    s.snapshot,
		LastError:  s.lastError,
		EventCount: len(s.events),
	}
}

// Subscribe returns a channel receiving every later event and a function
// that stops delivery. Events are dropped when the channel is full.
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
