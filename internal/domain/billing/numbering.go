package billing

import (
	"fmt"
	"sync"
	"time"
)

// InvoicePrefix starts every generated invoice number
const InvoicePrefix = "INV-"

const suffixSpace = 1_000_000

// Generator produces invoice numbers for new drafts
type Generator interface {
	Generate() string
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func() string

// Generate implements Generator
func (f GeneratorFunc) Generate() string { return f() }

// TimestampGenerator derives the suffix from the current unix milliseconds.
// Calls within one millisecond, or after the clock steps back, continue from
// the last issued value so a process never repeats a number until the
// suffix space wraps.
// Numbers are only unique inside one process: two processes, or one process
// after a restart, can produce the same number. The bills table carries a
// unique index on the invoice number for that reason.
type TimestampGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64 // last issued unix millis, before the modulo
	used bool
}

// NewTimestampGenerator creates a generator reading the given clock.
// A nil clock uses time.Now.
func NewTimestampGenerator(now func() time.Time) *TimestampGenerator {
	if now == nil {
		now = time.Now
	}
	return &TimestampGenerator{now: now}
}

// Generate returns INV- followed by six digits
func (g *TimestampGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	issued := g.now().UnixMilli()
	if g.used && issued <= g.last {
		issued = g.last + 1
	}
	g.last = issued
	g.used = true
	return fmt.Sprintf("%s%06d", InvoicePrefix, issued%suffixSpace)
}

// UniqueGenerator retries the inner generator while taken reports the number
// is already persisted. After maxAttempts the last candidate is returned and
// the storage constraint decides.
type UniqueGenerator struct {
	inner       Generator
	taken       func(string) bool
	maxAttempts int
}

// NewUniqueGenerator wraps inner with a bounded retry loop
func NewUniqueGenerator(inner Generator, taken func(string) bool, maxAttempts int) *UniqueGenerator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &UniqueGenerator{inner: inner, taken: taken, maxAttempts: maxAttempts}
}

// Generate implements Generator
func (g *UniqueGenerator) Generate() string {
	var candidate string
	for i := 0; i < g.maxAttempts; i++ {
		candidate = g.inner.Generate()
		if g.taken == nil || !g.taken(candidate) {
			return candidate
		}
	}
	return candidate
}
