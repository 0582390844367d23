// Package schema declares the destination staging tables as explicit
// capability declarations: table name, natural key columns, and mutable
// columns. The destination schema itself is a fixed external contract; these
// declarations are validated against it once at startup rather than being
// rediscovered per batch.
package schema

import "eqingest/internal/extract"

// FileRegistry is the source-file registration table. One row per distinct
// content hash; re-sighting the same content refreshes file_name only.
type FileRegistrySpec struct {
	Name       string
	IDColumn   string
	HashColumn string
	Columns    []string
}

// FileRegistry describes raw_ingest_file.
var FileRegistry = FileRegistrySpec{
	Name:       "raw_ingest_file",
	IDColumn:   "file_id",
	HashColumn: "file_hash",
	Columns:    []string{"provider", "file_type", "track_code", "race_date", "file_name", "file_hash"},
}

// Table renders the registry for startup validation. Every registry column
// is required, so they all validate as key columns.
func (s FileRegistrySpec) Table() Table {
	return Table{Name: s.Name, Key: s.Columns}
}

// Table declares one staging table's upsert contract.
type Table struct {
	Name string

	// Key is the natural-key column tuple used as the conflict target.
	// source_file_id is part of every key and attached by the writer.
	Key []string

	// NullableKey lists key columns allowed to be null (scratch program
	// numbers). Null in any other key column fails the entity's batch.
	NullableKey []string

	// Mutable columns are overwritten on conflict, last-write-wins.
	// Key columns are never updated.
	Mutable []string
}

// Columns returns the full wanted column list: key first, then mutable.
func (t Table) Columns() []string {
	out := make([]string, 0, len(t.Key)+len(t.Mutable))
	out = append(out, t.Key...)
	out = append(out, t.Mutable...)
	return out
}

// KeyNullable reports whether a key column tolerates null.
func (t Table) KeyNullable(col string) bool {
	for _, c := range t.NullableKey {
		if c == col {
			return true
		}
	}
	return false
}

var raceKey = []string{"source_file_id", "track_code", "race_date", "race_number"}

// Tables maps document kind to its entity-name -> table declarations, in
// write order.
var Tables = map[extract.Kind][]EntityTable{
	extract.KindChart: {
		{Entity: "race", Table: Table{
			Name:    "stg_chart_race",
			Key:     raceKey,
			Mutable: []string{"surface", "distance_yards", "track_condition", "purse", "condition_text", "winning_time", "row_fingerprint"},
		}},
		{Entity: "entry", Table: Table{
			Name:    "stg_chart_entry",
			Key:     append(append([]string{}, raceKey...), "program_number"),
			Mutable: []string{"horse_name", "finish_position", "final_odds", "win_payoff", "place_payoff", "show_payoff", "row_fingerprint"},
		}},
		{Entity: "payout", Table: Table{
			Name:    "stg_chart_payout",
			Key:     append(append([]string{}, raceKey...), "wager_type"),
			Mutable: []string{"winning_numbers", "pool", "payout_amount", "row_fingerprint"},
		}},
		{Entity: "scratch", Table: Table{
			Name:        "stg_chart_scratch",
			Key:         append(append([]string{}, raceKey...), "program_number"),
			NullableKey: []string{"program_number"},
			Mutable:     []string{"horse_name", "reason", "row_fingerprint"},
		}},
	},
	extract.KindPP: {
		{Entity: "race", Table: Table{
			Name:    "stg_pp_race",
			Key:     raceKey,
			Mutable: []string{"surface", "distance_yards", "track_condition", "age_restriction", "sex_restriction", "purse", "wager_text", "program_selections", "row_fingerprint"},
		}},
		{Entity: "entry", Table: Table{
			Name:    "stg_pp_entry",
			Key:     append(append([]string{}, raceKey...), "program_number"),
			Mutable: []string{"horse_name", "sire", "dam", "trainer_name", "jockey_name", "med_lasix", "equip_blinkers", "ml_odds", "speed_fig_last", "pace_fig1", "pace_fig2", "pace_fig3", "class_rating", "last_comment", "row_fingerprint"},
		}},
		{Entity: "workout", Table: Table{
			Name:    "stg_pp_workout",
			Key:     []string{"source_file_id", "horse_name", "work_date", "track_code", "distance_yards"},
			Mutable: []string{"surface", "course_type", "rank_in_set", "set_size", "time_raw", "bullet_flag", "row_fingerprint"},
		}},
	},
}

// EntityTable pairs an extractor entity name with its destination table.
type EntityTable struct {
	Entity string
	Table  Table
}

// AllTables returns every staging table declaration exactly once.
func AllTables() []Table {
	seen := map[string]bool{}
	var out []Table
	for _, kind := range []extract.Kind{extract.KindChart, extract.KindPP} {
		for _, et := range Tables[kind] {
			if !seen[et.Table.Name] {
				seen[et.Table.Name] = true
				out = append(out, et.Table)
			}
		}
	}
	return out
}
