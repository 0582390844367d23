package extract

import "testing"

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{"12.0", 12, true},
		{" 7 ", 7, true},
		{"12.9", 12, true},
		{"", 0, false},
		{"  ", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseInt(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseInt(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseFloatRejectsNonFinite(t *testing.T) {
	// strconv accepts these spellings, but they have no place in a staged
	// field and would break JSON fingerprinting downstream.
	for _, in := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
		if _, ok := ParseFloat(in); ok {
			t.Fatalf("ParseFloat(%q) accepted, want reject", in)
		}
	}
	if got, ok := ParseFloat("42.6"); !ok || got != 42.6 {
		t.Fatalf("ParseFloat(42.6) = %v, %v", got, ok)
	}
}

func TestParseDistanceText(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"6 Furlongs", 1320, true},
		{"1 Mile", 1760, true},
		{"1 1/16 Miles", 1870, true},
		{"About 7 1/2 Furlongs", 1650, true},
		{"440 Yards", 440, true},
		{"5f", 1100, true},
		{"six furlongs", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseDistanceText(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseDistanceText(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseDistanceUnit(t *testing.T) {
	cases := []struct {
		value float64
		unit  string
		want  int64
		ok    bool
	}{
		{650, "F", 1430, true}, // 6.50 furlongs in hundredths
		{100, "M", 1760, true},
		{1320, "Y", 1320, true},
		{650, "f", 1430, true},
		{650, "Q", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseDistanceUnit(c.value, c.unit)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseDistanceUnit(%v, %q) = %d, %v; want %d, %v", c.value, c.unit, got, ok, c.want, c.ok)
		}
	}
}

func TestOverScaledDistanceCorrection(t *testing.T) {
	// A raw value of 132000 yards is a double-scaled artifact; divide by 100.
	if got := clampYards(132000); got != 1320 {
		t.Fatalf("clampYards(132000) = %d, want 1320", got)
	}
	if got := clampYards(1760); got != 1760 {
		t.Fatalf("clampYards(1760) = %d, want 1760", got)
	}
}

func TestNormalizeSurface(t *testing.T) {
	cases := map[string]string{
		"Turf":             "T",
		"turf course":      "T",
		"Dirt":             "D",
		"All Weather Trk":  "A",
		"Synthetic":        "A",
		"Hurdle":           "H",
		"":                 "",
		"  dirt, sealed  ": "D",
	}
	for in, want := range cases {
		if got := NormalizeSurface(in); got != want {
			t.Fatalf("NormalizeSurface(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeProgram(t *testing.T) {
	accept := map[string]string{
		"1":   "1",
		"01":  "1",
		"1A":  "1A",
		"1a":  "1A",
		"12B": "12B",
		"09c": "9C",
	}
	for in, want := range accept {
		got, ok := NormalizeProgram(in)
		if !ok || got != want {
			t.Fatalf("NormalizeProgram(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"1D", "abc", "123", "", "A1", "0"} {
		if _, ok := NormalizeProgram(in); ok {
			t.Fatalf("NormalizeProgram(%q) accepted, want reject", in)
		}
	}
}

func TestFlagContains(t *testing.T) {
	if v := FlagContains("Lasix, Bute", "LASIX"); v != true {
		t.Fatalf("lasix flag = %v", v)
	}
	if v := FlagContains("Bute", "LASIX"); v != false {
		t.Fatalf("no-lasix flag = %v", v)
	}
	// Absent field is indeterminate, not false.
	if v := FlagContains("", "LASIX"); v != nil {
		t.Fatalf("absent field flag = %v, want nil", v)
	}
	if v := FlagContains("Blinkers On", "BLINK"); v != true {
		t.Fatalf("blinkers flag = %v", v)
	}
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"Y", "y", "TRUE", "true", "1"} {
		if !Truthy(s) {
			t.Fatalf("Truthy(%q) = false", s)
		}
	}
	for _, s := range []string{"", "N", "0", "false"} {
		if Truthy(s) {
			t.Fatalf("Truthy(%q) = true", s)
		}
	}
}
