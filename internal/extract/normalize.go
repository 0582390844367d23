// Value normalization for extracted fields: float-tolerant numeric parses,
// distance-to-yards conversion, surface letter codes, canonical program
// numbers, and substring-derived medication/equipment flags.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParseInt is a float-tolerant integer parse: "12" and "12.0" both yield 12.
// Empty or unparseable input yields (0, false), never an error.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, ok := ParseFloat(s); ok {
		return int64(f), true
	}
	return 0, false
}

// ParseFloat parses a float, yielding (0, false) on empty or bad input.
// Non-finite values are rejected: NaN and Inf have no meaning in any staged
// field and would not survive JSON fingerprinting.
func ParseFloat(s string) (float64, bool) {
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

// maxPlausibleYards guards against double-scaled distance values. Anything
// above it is assumed to be expressed in hundredths and divided by 100.
// Heuristic carried over from a provider unit-ambiguity bug; see DESIGN.md.
const maxPlausibleYards = 10000

// distanceRe matches a numeric prefix with an optional mixed fraction and a
// unit word: "6 Furlongs", "1 1/16 Miles", "1 Mile", "440 Yards".
var distanceRe = regexp.MustCompile(`(?i)^(?:about\s+)?(\d+(?:\.\d+)?)(?:\s+(\d+)\s*/\s*(\d+))?\s*(furlongs?|f|miles?|m|yards?|y)\b`)

// ParseDistanceText converts a human distance string to yards.
func ParseDistanceText(s string) (int64, bool) {
	m := distanceRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den == 0 {
			return 0, false
		}
		val += num / den
	}
	var yards float64
	switch strings.ToLower(m[4])[0] {
	case 'f':
		yards = val * 220
	case 'm':
		yards = val * 1760
	case 'y':
		yards = val
	}
	return clampYards(yards), true
}

// ParseDistanceUnit converts a numeric value with a companion unit code to
// yards. "F" and "M" encode hundredths of a furlong/mile; "Y" is yards.
func ParseDistanceUnit(value float64, unit string) (int64, bool) {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "F":
		return clampYards(value * 220 / 100), true
	case "M":
		return clampYards(value * 1760 / 100), true
	case "Y":
		return clampYards(value), true
	}
	return 0, false
}

func clampYards(y float64) int64 {
	yards := int64(y + 0.5)
	if yards > maxPlausibleYards {
		yards /= 100
	}
	return yards
}

// NormalizeSurface maps free-text surface descriptions to a single-letter
// code: turf T, dirt D, all weather / synthetic A, else the uppercased first
// letter.
func NormalizeSurface(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "":
		return ""
	case strings.HasPrefix(t, "turf"):
		return "T"
	case strings.HasPrefix(t, "dirt"):
		return "D"
	case strings.HasPrefix(t, "all weather"), strings.HasPrefix(t, "syn"):
		return "A"
	}
	return strings.ToUpper(t[:1])
}

// programRe: optional leading zero, 1-2 digit base, optional coupling letter.
var programRe = regexp.MustCompile(`^0?([1-9]\d?)([A-Ca-c])?$`)

// NormalizeProgram canonicalizes a program number: "01" -> "1",
// "1a" -> "1A", "12B" -> "12B". Any other shape is rejected and the caller
// drops that single record.
func NormalizeProgram(s string) (string, bool) {
	m := programRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return m[1] + strings.ToUpper(m[2]), true
}

// FlagContains derives a tri-state flag by substring containment. An empty
// source field means indeterminate (nil), not false.
func FlagContains(field, substr string) any {
	f := strings.ToUpper(strings.TrimSpace(field))
	if f == "" {
		return nil
	}
	return strings.Contains(f, substr)
}

// Truthy reports whether a provider flag field spells an affirmative value.
func Truthy(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "TRUE", "1":
		return true
	}
	return false
}
