// Package meta derives track code and race date from provider filename
// conventions. Filename-derived values are defaults only; whether they beat
// document-embedded values is decided per document kind by the caller.
package meta

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FileMeta holds metadata parsed from a filename. Zero values mean the
// filename did not encode that field.
type FileMeta struct {
	TrackCode string // uppercased, e.g. "KEE"
	RaceDate  string // ISO, e.g. "2023-10-14"
}

var filenamePatterns = []struct {
	re    *regexp.Regexp
	parse func([]string) FileMeta
}{
	{
		// Chart convention: kee20231014tch.xml
		re: regexp.MustCompile(`^([A-Za-z]{3})(\d{8})tch$`),
		parse: func(m []string) FileMeta {
			return FileMeta{TrackCode: strings.ToUpper(m[1]), RaceDate: isoDate(m[2])}
		},
	},
	{
		// PP convention: SIMD20231014KEE_USA.xml (fixed offsets after "SIMD")
		re: regexp.MustCompile(`^SIMD(\d{8})([A-Za-z]{3})`),
		parse: func(m []string) FileMeta {
			return FileMeta{TrackCode: strings.ToUpper(m[2]), RaceDate: isoDate(m[1])}
		},
	},
	{
		// Generic: an 8-digit date run starting with 20, optionally followed
		// by a 2-4 letter uppercase track code before a separator.
		re: regexp.MustCompile(`(20\d{6})([A-Z]{2,4})?(?:[._-]|$)`),
		parse: func(m []string) FileMeta {
			return FileMeta{TrackCode: m[2], RaceDate: isoDate(m[1])}
		},
	},
}

// FromFilename extracts (track, date) from a file name or path. Unmatched or
// malformed names yield an empty FileMeta, never an error.
func FromFilename(path string) FileMeta {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, p := range filenamePatterns {
		if m := p.re.FindStringSubmatch(stem); m != nil {
			fm := p.parse(m)
			if !plausibleDate(fm.RaceDate) {
				continue
			}
			return fm
		}
	}
	return FileMeta{}
}

// Merge overlays non-empty fields of other onto fm and returns the result.
// Used to apply CLI overrides and document-embedded values per the chosen
// precedence rule.
func (fm FileMeta) Merge(other FileMeta) FileMeta {
	out := fm
	if other.TrackCode != "" {
		out.TrackCode = other.TrackCode
	}
	if other.RaceDate != "" {
		out.RaceDate = other.RaceDate
	}
	return out
}

func isoDate(yyyymmdd string) string {
	if len(yyyymmdd) != 8 {
		return ""
	}
	return yyyymmdd[:4] + "-" + yyyymmdd[4:6] + "-" + yyyymmdd[6:]
}

// plausibleDate rejects 8-digit runs that cannot be a calendar date, so the
// generic pattern does not fire on arbitrary numeric ids.
func plausibleDate(iso string) bool {
	if len(iso) != 10 {
		return false
	}
	mm := iso[5:7]
	dd := iso[8:10]
	return mm >= "01" && mm <= "12" && dd >= "01" && dd <= "31"
}
