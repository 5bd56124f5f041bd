package api

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync"
	"time"
)

// IDGen issues turn IDs that stay unique even when two turns are created
// within the same clock tick: the time component is strictly increasing.
type IDGen struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGen returns a generator backed by the wall clock.
func NewIDGen() *IDGen { return &IDGen{now: time.Now} }

// Next returns the next ID and the instant it was stamped with.
func (g *IDGen) Next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	clock := g.now
	if clock == nil {
		clock = time.Now
	}
	t := clock()
	n := t.UnixNano()
	if n <= g.last {
		n = g.last + 1
		t = time.Unix(0, n)
	}
	g.last = n
	return formatID(n), t
}

func formatID(n int64) string {
	var buf [6]byte
	_, _ = rand.Read(buf[:])
	return strconv.FormatInt(n, 36) + "-" + hex.EncodeToString(buf[:])
}

var defaultGen = NewIDGen()

// NewID generates a sortable-ish ID from the shared generator.
func NewID() string {
	id, _ := defaultGen.Next()
	return id
}
