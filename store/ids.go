// ABOUTME: Identifier and clock capabilities injected into the store
// ABOUTME: Provides UUID, ULID and deterministic sequence id generators
package store

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces a unique, stable id for every created entity.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// ULIDGenerator issues lexicographically sortable ULIDs.
type ULIDGenerator struct{}

func (ULIDGenerator) NewID() string {
	return ulid.Make().String()
}

// SequenceGenerator issues prefix_N ids from a counter. Used where ids must be
// predictable, such as tests and scripted scenarios.
type SequenceGenerator struct {
	prefix string
	next   atomic.Int64
}

// NewSequenceGenerator returns a generator whose first id is prefix_(start+1).
func NewSequenceGenerator(prefix string, start int64) *SequenceGenerator {
	g := &SequenceGenerator{prefix: prefix}
	g.next.Store(start)
	return g
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s_%d", g.prefix, g.next.Add(1))
}

// GeneratorFor maps a configured id scheme to a generator.
func GeneratorFor(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", "uuid":
		return UUIDGenerator{}, nil
	case "ulid":
		return ULIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q (valid: uuid, ulid)", scheme)
	}
}

// Clock supplies the current time for bookkeeping timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reports wall-clock time in UTC.
var SystemClock = ClockFunc(func() time.Time { return time.Now().UTC() })
