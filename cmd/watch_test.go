package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/spesa/internal/watch"
)

func TestPrintHistory(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	events := []watch.Event{
		{ID: 1, Type: watch.EventSnapshot, Timestamp: at, Snapshot: watch.Snapshot{Items: 4}},
		{ID: 2, Type: watch.EventDelta, Timestamp: at.Add(time.Minute), Delta: watch.Delta{Removed: []string{"A1"}}},
	}

	var buf bytes.Buffer
	printHistory(&buf, events)
	out := buf.String()
	assert.Contains(t, out, "History  2 events")
	assert.Contains(t, out, "4 products (0 skipped, parsed)")
	assert.Contains(t, out, "catalog changed: +0 -1 ~0")
	assert.Contains(t, out, "09:31:00")

	buf.Reset()
	printHistory(&buf, nil)
	assert.Empty(t, buf.String())
}
