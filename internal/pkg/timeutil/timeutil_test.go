package timeutil

import (
	"testing"
)

func TestToSeconds(t *testing.T) {
	cases := []struct {
		input string
		want  int
		fails bool
	}{
		{"00:00", 0, false},
		{"09:00", 32400, false},
		{"12:00", 43200, false},
		{"23:59", 86340, false},
		{"06:30:15", 23415, false},
		{"9:5", 32700, false},
		{"", 0, true},
		{"09", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
	}
	for _, c := range cases {
		got, err := ToSeconds(c.input)
		if c.fails {
			if err == nil {
				t.Errorf("ToSeconds(%q) expected error, got %d", c.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ToSeconds(%q) unexpected error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ToSeconds(%q) = %d, want %d", c.input, got, c.want)
		}
	}
}

func TestToTimeStringRoundTrip(t *testing.T) {
	// Round-trip holds for every whole minute of the day.
	for s := 0; s < 86400; s += 60 {
		got, err := ToSeconds(ToTimeString(s))
		if err != nil {
			t.Fatalf("round trip of %d: %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip of %d: got %d", s, got)
		}
	}
}

func TestFormatDurationRoundTrip(t *testing.T) {
	// At second granularity the round trip goes through FormatDuration,
	// whose HH:MM:SS output ToSeconds also accepts.
	for s := 0; s < 86400; s++ {
		got, err := ToSeconds(FormatDuration(s))
		if err != nil {
			t.Fatalf("round trip of %d: %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip of %d: got %d", s, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{1800, "00:30:00"},
		{27000, "07:30:00"},
		{86400, "24:00:00"},
		{188100, "52:15:00"},
		{-5, "00:00:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}
