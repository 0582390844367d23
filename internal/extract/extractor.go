// Package extract projects parsed provider documents into typed staging row
// records. One walker handles every document kind; the per-kind differences
// live entirely in the alias tables declared in alias.go.
package extract

import (
	"fmt"
	"strings"

	"eqingest/internal/meta"
	"eqingest/internal/records"
	"eqingest/internal/xmltree"
)

// Kind selects a document kind and its alias table.
type Kind string

const (
	KindChart Kind = "chart"
	KindPP    Kind = "pp"
)

// ForKind returns the extraction spec for a document kind.
func ForKind(k Kind) (*DocSpec, error) {
	switch k {
	case KindChart:
		return &chartSpec, nil
	case KindPP:
		return &ppSpec, nil
	}
	return nil, fmt.Errorf("unknown document kind %q", k)
}

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldInt
	fieldFloat
	fieldSurface
	fieldProgram
	fieldFlag
	fieldTruthy
	fieldDistance
)

// FieldDef declares how one output column is located and coerced. Elems are
// element tag aliases tried in priority order; Attrs are attribute-name
// aliases consulted when no element text matches (first on matching
// elements, then on the entity element itself).
type FieldDef struct {
	Column string
	Kind   fieldKind
	Elems  []string
	Attrs  []string

	// Distance-only alias sets.
	YardElems    []string // fields already in (possibly double-scaled) yards
	FurlongElems []string // fields in whole furlongs
	UnitElems    []string // companion unit-code field (F/M/Y, hundredths)

	// Flag-only: substring whose containment sets the flag.
	Flag string

	// Required marks key fields: a record that cannot resolve one is
	// dropped, leaving its siblings intact.
	Required bool
}

// EntityDef declares one logical entity within a document.
type EntityDef struct {
	Name   string   // batch name, e.g. "race", "entry"
	Elems  []string // entity element tag aliases
	Fields []FieldDef
}

// DocSpec is the full alias table for one document kind.
type DocSpec struct {
	Kind Kind

	// PreferDocMeta selects the track/date precedence rule: true means
	// document-embedded values beat filename-derived defaults.
	PreferDocMeta bool

	TrackElems []string
	DateElems  []string

	Race     EntityDef   // raced scope; carries the race-number field
	PerRace  []EntityDef // entities nested under each race element
	TopLevel []EntityDef // entities outside race scope (workouts)
}

// Result maps entity name to its rows in document encounter order.
type Result map[string][]records.Record

// Dropped counts records discarded for unresolvable key fields, by entity.
type Dropped map[string]int

// Extract walks the document and emits fingerprinted rows per entity. It
// returns the effective (track, date) scope after applying the kind's
// precedence rule to the filename-derived defaults, the rows, and drop
// counts. Explicit overrides beat both filename and document values.
// Extraction itself never fails; malformed pieces are dropped at the
// narrowest possible scope.
func (s *DocSpec) Extract(root *xmltree.Node, defaults, overrides meta.FileMeta) (meta.FileMeta, Result, Dropped) {
	docMeta := meta.FileMeta{
		TrackCode: root.FirstText(s.TrackElems...),
		RaceDate:  root.FirstText(s.DateElems...),
	}
	var eff meta.FileMeta
	if s.PreferDocMeta {
		eff = defaults.Merge(docMeta)
	} else {
		eff = docMeta.Merge(defaults)
	}
	eff = eff.Merge(overrides)

	out := Result{}
	dropped := Dropped{}

	raceSeen := 0
	for _, raceNode := range root.Descendants(s.Race.Elems...) {
		raceSeen++
		rnum, ok := resolveRaceNumber(raceNode, s.Race, raceSeen)
		if !ok {
			// Malformed race number: drop the race and everything under it.
			dropped[s.Race.Name]++
			continue
		}

		scope := records.Record{
			"track_code":  orNil(eff.TrackCode),
			"race_date":   orNil(eff.RaceDate),
			"race_number": rnum,
		}

		row, ok := emitEntity(raceNode, s.Race, scope)
		if !ok {
			dropped[s.Race.Name]++
			continue
		}
		out[s.Race.Name] = append(out[s.Race.Name], row)

		for _, child := range s.PerRace {
			for _, n := range raceNode.Descendants(child.Elems...) {
				if crow, ok := emitEntity(n, child, scope); ok {
					out[child.Name] = append(out[child.Name], crow)
				} else {
					dropped[child.Name]++
				}
			}
		}
	}

	for _, ent := range s.TopLevel {
		for _, n := range root.Descendants(ent.Elems...) {
			row, ok := emitEntity(n, ent, records.Record{})
			if !ok {
				dropped[ent.Name]++
				continue
			}
			// Workouts without their own track inherit the document scope.
			if v, present := row["track_code"]; present && v == nil {
				row["track_code"] = orNil(eff.TrackCode)
				row.Stamp()
			}
			out[ent.Name] = append(out[ent.Name], row)
		}
	}

	return eff, out, dropped
}

// resolveRaceNumber finds the race number, falling back to the 1-based
// ordinal only when no race-number field exists at all. A field that is
// present but unparseable marks the race malformed.
//
// Unlike regular fields, the lookup is scoped to the race element's direct
// children and own attributes: entrants nested below carry their own
// number-like tags that a descendant scan would wrongly pick up.
func resolveRaceNumber(n *xmltree.Node, race EntityDef, ordinal int) (int64, bool) {
	var numDef *FieldDef
	for i := range race.Fields {
		if race.Fields[i].Column == "race_number" {
			numDef = &race.Fields[i]
			break
		}
	}
	if numDef == nil {
		return int64(ordinal), true
	}
	raw := ""
	for _, alias := range numDef.Elems {
		for _, c := range n.Children {
			if strings.EqualFold(c.Name, alias) && c.Text() != "" {
				raw = c.Text()
				break
			}
		}
		if raw != "" {
			break
		}
	}
	if raw == "" {
		for _, a := range numDef.Attrs {
			if v, ok := n.Attr(a); ok && v != "" {
				raw = v
				break
			}
		}
	}
	if raw == "" {
		return int64(ordinal), true
	}
	v, ok := ParseInt(raw)
	return v, ok
}

// emitEntity builds one fingerprinted record, or reports false when a
// required field cannot be resolved.
func emitEntity(n *xmltree.Node, ent EntityDef, scope records.Record) (records.Record, bool) {
	row := scope.Clone()
	for _, f := range ent.Fields {
		if f.Column == "race_number" {
			continue // resolved at race scope
		}
		v, ok := resolveField(n, f)
		if !ok {
			return nil, false
		}
		row[f.Column] = v
	}
	return row.Stamp(), true
}

func resolveField(n *xmltree.Node, f FieldDef) (any, bool) {
	if f.Kind == fieldDistance {
		v := resolveDistance(n, f)
		if v == nil && f.Required {
			return nil, false
		}
		return v, true
	}

	raw := lookup(n, f.Elems, f.Attrs)

	switch f.Kind {
	case fieldText:
		if raw == "" {
			if f.Required {
				return nil, false
			}
			return nil, true
		}
		return raw, true
	case fieldInt:
		if v, ok := ParseInt(raw); ok {
			return v, true
		}
	case fieldFloat:
		if v, ok := ParseFloat(raw); ok {
			return v, true
		}
	case fieldSurface:
		if s := NormalizeSurface(raw); s != "" {
			return s, true
		}
	case fieldProgram:
		if raw == "" {
			// Nullable only when the key tolerates it (scratches).
			if f.Required {
				return nil, false
			}
			return nil, true
		}
		if p, ok := NormalizeProgram(raw); ok {
			return p, true
		}
		// Present but malformed rejects the record either way.
		return nil, false
	case fieldFlag:
		return FlagContains(raw, f.Flag), true
	case fieldTruthy:
		return Truthy(raw), true
	}

	if f.Required {
		return nil, false
	}
	return nil, true
}

// resolveDistance normalizes a distance to whole yards from whichever
// encoding the document uses: explicit yards, whole furlongs, a value with a
// companion unit code, or a human-readable string.
func resolveDistance(n *xmltree.Node, f FieldDef) any {
	if raw := n.FirstText(f.YardElems...); raw != "" {
		if v, ok := ParseFloat(raw); ok {
			return clampYards(v)
		}
	}
	if raw := n.FirstText(f.FurlongElems...); raw != "" {
		if v, ok := ParseFloat(raw); ok {
			return clampYards(v * 220)
		}
	}
	raw := lookup(n, f.Elems, f.Attrs)
	if raw == "" {
		return nil
	}
	if unit := n.FirstText(f.UnitElems...); unit != "" {
		if v, ok := ParseFloat(raw); ok {
			if y, ok := ParseDistanceUnit(v, unit); ok {
				return y
			}
		}
	}
	if y, ok := ParseDistanceText(raw); ok {
		return y
	}
	if v, ok := ParseFloat(raw); ok {
		return clampYards(v)
	}
	return nil
}

// lookup implements the field resolution chain: element text across aliases
// in priority order, then attributes of matching elements, then attributes
// of the entity element itself.
func lookup(n *xmltree.Node, elems, attrs []string) string {
	if t := n.FirstText(elems...); t != "" {
		return t
	}
	for _, e := range elems {
		for _, d := range n.Descendants(e) {
			for _, a := range attrs {
				if v, ok := d.Attr(a); ok && v != "" {
					return v
				}
			}
		}
	}
	for _, a := range attrs {
		if v, ok := n.Attr(a); ok && v != "" {
			return v
		}
	}
	return ""
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
