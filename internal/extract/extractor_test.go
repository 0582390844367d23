package extract

import (
	"testing"

	"eqingest/internal/meta"
	"eqingest/internal/records"
	"eqingest/internal/xmltree"
)

func parse(t *testing.T, doc string) *xmltree.Node {
	t.Helper()
	root, err := xmltree.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return root
}

const chartCamel = `<Chart>
  <Track><Code>KEE</Code></Track>
  <RaceDate>2023-10-14</RaceDate>
  <Race>
    <RaceNumber>1</RaceNumber>
    <Surface>Dirt</Surface>
    <Distance>6 Furlongs</Distance>
    <TrackCondition>Fast</TrackCondition>
    <Purse>80000</Purse>
    <WinningTime>1:10.21</WinningTime>
    <Starter>
      <Program>01</Program>
      <HorseName>Fast Harbor</HorseName>
      <FinishPosition>1</FinishPosition>
      <Odds>3.40</Odds>
      <WinPayoff>8.80</WinPayoff>
    </Starter>
    <Starter>
      <Program>1A</Program>
      <HorseName>Coupled Mate</HorseName>
      <FinishPosition>4</FinishPosition>
    </Starter>
    <Payout>
      <WagerType>Exacta</WagerType>
      <WinningNumbers>1-5</WinningNumbers>
      <Pool>120000</Pool>
      <PayoutAmount>42.60</PayoutAmount>
    </Payout>
    <Scratch>
      <HorseName>Late Out</HorseName>
      <Reason>Veterinarian</Reason>
    </Scratch>
  </Race>
</Chart>`

func TestExtractChartCamel(t *testing.T) {
	spec, err := ForKind(KindChart)
	if err != nil {
		t.Fatalf("ForKind: %v", err)
	}
	eff, rows, dropped := spec.Extract(parse(t, chartCamel), meta.FileMeta{TrackCode: "XXX", RaceDate: "1999-01-01"}, meta.FileMeta{})

	// Chart precedence: document values beat filename defaults.
	if eff.TrackCode != "KEE" || eff.RaceDate != "2023-10-14" {
		t.Fatalf("effective meta = %+v", eff)
	}

	races := rows["race"]
	if len(races) != 1 {
		t.Fatalf("races = %d", len(races))
	}
	r := races[0]
	if r["race_number"] != int64(1) || r["surface"] != "D" || r["distance_yards"] != int64(1320) {
		t.Fatalf("race row: %#v", r)
	}
	if r["track_condition"] != "Fast" || r["purse"] != int64(80000) || r["winning_time"] != "1:10.21" {
		t.Fatalf("race row: %#v", r)
	}
	if r[records.FingerprintField] == nil {
		t.Fatalf("race row missing fingerprint")
	}

	entries := rows["entry"]
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0]["program_number"] != "1" || entries[1]["program_number"] != "1A" {
		t.Fatalf("program numbers: %v, %v", entries[0]["program_number"], entries[1]["program_number"])
	}
	if entries[0]["win_payoff"] != 8.80 {
		t.Fatalf("win_payoff: %v", entries[0]["win_payoff"])
	}

	payouts := rows["payout"]
	if len(payouts) != 1 || payouts[0]["wager_type"] != "Exacta" || payouts[0]["payout_amount"] != 42.60 {
		t.Fatalf("payouts: %#v", payouts)
	}

	scratches := rows["scratch"]
	if len(scratches) != 1 {
		t.Fatalf("scratches = %d", len(scratches))
	}
	// Scratches may lack a program number; the key tolerates null.
	if scratches[0]["program_number"] != nil || scratches[0]["horse_name"] != "Late Out" {
		t.Fatalf("scratch row: %#v", scratches[0])
	}

	if len(dropped) != 0 {
		t.Fatalf("unexpected drops: %v", dropped)
	}
}

const chartScreaming = `<CHART>
  <TRACK><CODE>SAR</CODE></TRACK>
  <RACE_DATE>2024-08-01</RACE_DATE>
  <RACE NUMBER="7">
    <SURFACE>Turf</SURFACE>
    <DISTANCE_YARDS>1870</DISTANCE_YARDS>
    <TRACK_CONDITION>Firm</TRACK_CONDITION>
    <STARTER>
      <PROGRAM>12B</PROGRAM>
      <HORSE_NAME>Upper Case</HORSE_NAME>
      <FINISH_POSITION>2.0</FINISH_POSITION>
    </STARTER>
  </RACE>
</CHART>`

func TestExtractChartScreamingVariant(t *testing.T) {
	spec, _ := ForKind(KindChart)
	eff, rows, _ := spec.Extract(parse(t, chartScreaming), meta.FileMeta{}, meta.FileMeta{})

	if eff.TrackCode != "SAR" || eff.RaceDate != "2024-08-01" {
		t.Fatalf("effective meta = %+v", eff)
	}
	r := rows["race"][0]
	// Race number came from the RACE element attribute.
	if r["race_number"] != int64(7) || r["surface"] != "T" || r["distance_yards"] != int64(1870) {
		t.Fatalf("race row: %#v", r)
	}
	e := rows["entry"][0]
	if e["program_number"] != "12B" || e["horse_name"] != "Upper Case" || e["finish_position"] != int64(2) {
		t.Fatalf("entry row: %#v", e)
	}
}

const chartPartial = `<Chart>
  <Track><Code>CD</Code></Track>
  <RaceDate>2023-06-11</RaceDate>
  <Race>
    <RaceNumber>1</RaceNumber>
    <Starter><Program>1</Program><HorseName>One</HorseName></Starter>
  </Race>
  <Race>
    <RaceNumber>garbled</RaceNumber>
    <Starter><Program>2</Program><HorseName>Lost</HorseName></Starter>
  </Race>
  <Race>
    <RaceNumber>3</RaceNumber>
    <Starter><Program>3</Program><HorseName>Three</HorseName></Starter>
    <Starter><Program>99X</Program><HorseName>BadProgram</HorseName></Starter>
  </Race>
</Chart>`

func TestExtractPartialFailureIsolation(t *testing.T) {
	spec, _ := ForKind(KindChart)
	_, rows, dropped := spec.Extract(parse(t, chartPartial), meta.FileMeta{}, meta.FileMeta{})

	// The malformed race and everything under it is dropped; the two
	// well-formed races and their valid entrants survive.
	if len(rows["race"]) != 2 {
		t.Fatalf("races = %d, want 2", len(rows["race"]))
	}
	if rows["race"][0]["race_number"] != int64(1) || rows["race"][1]["race_number"] != int64(3) {
		t.Fatalf("race numbers: %#v", rows["race"])
	}
	if len(rows["entry"]) != 2 {
		t.Fatalf("entries = %d, want 2", len(rows["entry"]))
	}
	if dropped["race"] != 1 || dropped["entry"] != 1 {
		t.Fatalf("dropped = %v", dropped)
	}
}

func TestExtractRaceNumberOrdinalFallback(t *testing.T) {
	doc := `<Chart><Race><Surface>Dirt</Surface></Race><Race><Surface>Turf</Surface></Race></Chart>`
	spec, _ := ForKind(KindChart)
	_, rows, _ := spec.Extract(parse(t, doc), meta.FileMeta{TrackCode: "KEE", RaceDate: "2023-10-14"}, meta.FileMeta{})
	if len(rows["race"]) != 2 {
		t.Fatalf("races = %d", len(rows["race"]))
	}
	if rows["race"][0]["race_number"] != int64(1) || rows["race"][1]["race_number"] != int64(2) {
		t.Fatalf("ordinal fallback: %#v", rows["race"])
	}
}

const ppSample = `<PastPerformance>
  <Track><Code>BEL</Code></Track>
  <RaceDate>2024-05-02</RaceDate>
  <Race Number="4">
    <Surface>Turf</Surface>
    <Distance>650</Distance>
    <DistanceUnit>F</DistanceUnit>
    <Purse>90000</Purse>
    <Starter>
      <Program>5</Program>
      <HorseName>Morning Glory</HorseName>
      <TrainerName>A Trainer</TrainerName>
      <Medication>Lasix, Bute</Medication>
      <SpeedFigure>88.0</SpeedFigure>
    </Starter>
    <Starter>
      <Program>6</Program>
      <HorseName>No Meds Listed</HorseName>
    </Starter>
  </Race>
  <Workout>
    <HorseName>Morning Glory</HorseName>
    <Date>2024-04-20</Date>
    <DistanceFurlongs>4</DistanceFurlongs>
    <Time>48.2</Time>
    <Bullet>Y</Bullet>
    <Rank>1</Rank>
    <SetSize>22</SetSize>
  </Workout>
  <Workout>
    <HorseName>Keyless</HorseName>
    <Time>47.0</Time>
  </Workout>
</PastPerformance>`

func TestExtractPP(t *testing.T) {
	spec, err := ForKind(KindPP)
	if err != nil {
		t.Fatalf("ForKind: %v", err)
	}
	// PP precedence: filename-derived defaults win over document values.
	eff, rows, dropped := spec.Extract(parse(t, ppSample), meta.FileMeta{TrackCode: "KEE", RaceDate: "2024-05-03"}, meta.FileMeta{})
	if eff.TrackCode != "KEE" || eff.RaceDate != "2024-05-03" {
		t.Fatalf("effective meta = %+v", eff)
	}

	r := rows["race"][0]
	if r["race_number"] != int64(4) || r["surface"] != "T" {
		t.Fatalf("race row: %#v", r)
	}
	// 650 hundredths of a furlong with unit code F -> 1430 yards.
	if r["distance_yards"] != int64(1430) {
		t.Fatalf("distance_yards: %v", r["distance_yards"])
	}

	entries := rows["entry"]
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0]["med_lasix"] != true || entries[0]["speed_fig_last"] != int64(88) {
		t.Fatalf("entry row: %#v", entries[0])
	}
	// Absent medication field is indeterminate, not false.
	if entries[1]["med_lasix"] != nil {
		t.Fatalf("med_lasix for bare entry: %v", entries[1]["med_lasix"])
	}

	works := rows["workout"]
	if len(works) != 1 {
		t.Fatalf("workouts = %d (keyless workout should drop)", len(works))
	}
	w := works[0]
	if w["horse_name"] != "Morning Glory" || w["work_date"] != "2024-04-20" {
		t.Fatalf("workout row: %#v", w)
	}
	// 4 whole furlongs -> 880 yards; track inherited from document scope.
	if w["distance_yards"] != int64(880) || w["track_code"] != "KEE" {
		t.Fatalf("workout row: %#v", w)
	}
	if w["bullet_flag"] != true || w["rank_in_set"] != int64(1) || w["set_size"] != int64(22) {
		t.Fatalf("workout row: %#v", w)
	}
	if dropped["workout"] != 1 {
		t.Fatalf("dropped = %v", dropped)
	}
}

func TestExtractOrderStable(t *testing.T) {
	doc := `<Chart><Race><RaceNumber>2</RaceNumber></Race><Race><RaceNumber>1</RaceNumber></Race></Chart>`
	spec, _ := ForKind(KindChart)
	_, rows, _ := spec.Extract(parse(t, doc), meta.FileMeta{}, meta.FileMeta{})
	// Document encounter order, not key order.
	if rows["race"][0]["race_number"] != int64(2) || rows["race"][1]["race_number"] != int64(1) {
		t.Fatalf("encounter order broken: %#v", rows["race"])
	}
}

func TestForKindUnknown(t *testing.T) {
	if _, err := ForKind("results"); err == nil {
		t.Fatalf("want error for unknown kind")
	}
}

func TestExtractOverridesBeatDocument(t *testing.T) {
	spec, _ := ForKind(KindChart)
	eff, _, _ := spec.Extract(parse(t, chartCamel), meta.FileMeta{TrackCode: "XXX"}, meta.FileMeta{TrackCode: "OVR"})
	if eff.TrackCode != "OVR" || eff.RaceDate != "2023-10-14" {
		t.Fatalf("override precedence: %+v", eff)
	}
}
