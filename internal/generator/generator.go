// Package generator synthesizes practice datasets: one value per declared
// column, optional noise, dataset-specific derived columns and a final
// duplication pass.
package generator

import (
	"math"
	"strings"
	"time"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/schema"
)

const (
	defaultMin = 1
	defaultMax = 1000

	maxSubjectMark = 100

	// dateWindowDays is how far back generated dates reach
	dateWindowDays = 730

	// unknownValue is emitted for column types the generator does not know
	unknownValue = "N/A"

	emailDomain = "@example.com"
)

// Generator produces synthetic values. It holds no state between calls beyond
// its random source and clock, so one Generator may serve concurrent requests
// when its Source is safe for concurrent use.
type Generator struct {
	src Source
	now func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithSource replaces the random source
func WithSource(src Source) Option {
	return func(g *Generator) {
		g.src = src
	}
}

// WithClock replaces the clock used for date values
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator backed by the process-wide random source
func New(opts ...Option) *Generator {
	g := &Generator{
		src: DefaultSource(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateValue produces one value for col, including the missing-value trial
// and noise injection. A missing value is returned as nil.
func (g *Generator) GenerateValue(col schema.Column, messy config.MessyConfig) interface{} {
	if percent(g.src) < messy.MissingPct {
		return nil
	}
	return g.ApplyNoise(g.rawValue(col), messy)
}

func (g *Generator) rawValue(col schema.Column) interface{} {
	switch col.Type {
	case schema.TypeText:
		return pick(g.src, names)
	case schema.TypeNumber:
		lo, hi := defaultMin, defaultMax
		if col.Range != nil {
			lo, hi = col.Range.Min, col.Range.Max
		}
		return g.intBetween(lo, hi)
	case schema.TypeCity:
		return pick(g.src, cities)
	case schema.TypeCategory:
		if len(col.Options) > 0 {
			return pick(g.src, col.Options)
		}
		return pick(g.src, categories)
	case schema.TypeCurrency:
		if col.Range != nil && col.Range.Min <= col.Range.Max {
			lo, hi := float64(col.Range.Min), float64(col.Range.Max)
			return math.Min(math.Round((lo+g.src.Float64()*(hi-lo))*100)/100, hi)
		}
		return math.Round((g.src.Float64()*50000+1000)*100) / 100
	case schema.TypeEmail:
		name := strings.ToLower(pick(g.src, names))
		return strings.ReplaceAll(name, " ", ".") + emailDomain
	case schema.TypeDate:
		offset := g.src.IntN(dateWindowDays)
		return g.now().UTC().AddDate(0, 0, -offset).Format("2006-01-02")
	case schema.TypeBoolean:
		if g.src.Float64() < 0.5 {
			return "Active"
		}
		return "Inactive"
	case schema.TypeSubjectMark:
		if col.Range != nil {
			return g.intBetween(col.Range.Min, col.Range.Max)
		}
		return g.src.IntN(maxSubjectMark + 1)
	default:
		return unknownValue
	}
}

// intBetween draws a uniform integer in [lo, hi]. An inverted range collapses to lo.
// Spans too wide for IntN are drawn from Float64 and clamped to hi.
func (g *Generator) intBetween(lo, hi int) int {
	if hi < lo {
		return lo
	}
	span := uint64(hi) - uint64(lo)
	if span < uint64(math.MaxInt) {
		return lo + g.src.IntN(int(span)+1)
	}
	offset := uint64(g.src.Float64() * float64(span))
	if offset > span {
		offset = span
	}
	return int(uint64(lo) + offset)
}
