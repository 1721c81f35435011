package generator

import (
	"math"
	"strconv"
	"strings"

	"github.com/koba/xcellab/internal/config"
)

// Trial probabilities, in percent
const (
	wrongTypePct     = 5
	extraSpacesPct   = 30
	mixedCasingPct   = 20
	invalidFormatPct = 5
)

// ApplyNoise perturbs a generated value according to the enabled noise flags.
// Each trial is an independent draw and only consumes randomness when its flag
// is on. nil is returned unchanged.
func (g *Generator) ApplyNoise(value interface{}, messy config.MessyConfig) interface{} {
	if value == nil {
		return nil
	}

	if messy.WrongTypes && percent(g.src) < wrongTypePct {
		value = flipType(value)
	}

	s, ok := value.(string)
	if !ok {
		return value
	}

	if messy.ExtraSpaces && percent(g.src) < extraSpacesPct {
		if g.src.Float64() < 0.5 {
			s = "  " + s
		} else {
			s = s + "   "
		}
	}
	if messy.MixedCasing && percent(g.src) < mixedCasingPct {
		if g.src.Float64() < 0.5 {
			s = strings.ToUpper(s)
		} else {
			s = strings.ToLower(s)
		}
	}
	if messy.InvalidFormats && percent(g.src) < invalidFormatPct {
		s = strings.Replace(s, "@", " (at) ", 1)
	}

	return s
}

// flipType stringifies numbers and parses numeric-looking strings.
// Values of any other shape pass through.
func flipType(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		if f, ok := parseNumber(v); ok {
			return normalizeNumber(f)
		}
	}
	return value
}

// parseNumber parses a string as a number, ignoring surrounding whitespace
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalizeNumber returns whole numbers as int so they render without a
// fractional part
func normalizeNumber(f float64) interface{} {
	if f >= -1<<53 && f <= 1<<53 && f == math.Trunc(f) {
		return int(f)
	}
	return f
}

// toNumber coerces a row value to a number. nil, zero, non-numeric strings and
// other shapes fall back to def.
func toNumber(value interface{}, def float64) float64 {
	var f float64
	switch v := value.(type) {
	case int:
		f = float64(v)
	case float64:
		f = v
	case string:
		parsed, ok := parseNumber(v)
		if !ok {
			return def
		}
		f = parsed
	default:
		return def
	}
	if f == 0 {
		return def
	}
	return f
}
