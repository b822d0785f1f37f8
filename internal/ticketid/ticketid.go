package ticketid

import (
	"context"
	"fmt"
	"time"
)

// Sequence allocates strictly increasing ticket numbers. Implementations must
// be atomic under concurrent callers; two allocations never return the same
// value.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// Generator produces human-readable, sortable ticket codes.
type Generator struct {
	prefix string
	seq    Sequence
}

// NewGenerator constructs a generator over the given sequence.
func NewGenerator(prefix string, seq Sequence) *Generator {
	return &Generator{prefix: prefix, seq: seq}
}

// Next allocates the next ticket code for the given creation time.
func (g *Generator) Next(ctx context.Context, now time.Time) (string, error) {
	n, err := g.seq.Next(ctx)
	if err != nil {
		return "", err
	}
	return Format(g.prefix, now, n), nil
}

// Format renders a ticket code as <prefix>-<YY><MM>-<seq>. The sequence is a
// running total, not a per-month counter; the year and month are cosmetic and
// never reset it.
func Format(prefix string, now time.Time, seq int64) string {
	return fmt.Sprintf("%s-%02d%02d-%04d", prefix, now.Year()%100, int(now.Month()), seq)
}
