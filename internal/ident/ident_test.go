package ident

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Shape(t *testing.T) {
	id := New()
	if len(id) != Length {
		t.Fatalf("len = %d, want %d (id %q)", len(id), Length, id)
	}
	if !Valid(id) {
		t.Errorf("New() produced invalid id %q", id)
	}
	if id[4] != '-' {
		t.Errorf("separator = %q, want '-'", id[4])
	}
}

func TestFormat_FixedWidth(t *testing.T) {
	id := format(0, 0)
	if id != "0000-0000000000" {
		t.Errorf("format(0,0) = %q", id)
	}
	id = format(0xffff, 1)
	if id != "ffff-0000000001" {
		t.Errorf("format(ffff,1) = %q", id)
	}
}

func TestFormat_DistinctAcrossTimestampUnits(t *testing.T) {
	// Same random value, adjacent seconds: ids must differ.
	a := format(0xbeef, 1700000000)
	b := format(0xbeef, 1700000001)
	if a == b {
		t.Fatalf("ids for adjacent seconds collide: %q", a)
	}
}

func TestFormat_SortableByTimestamp(t *testing.T) {
	// Stripping the random prefix leaves a lexicographically sortable suffix.
	early := format(0xffff, 1000)
	late := format(0x0000, 2000)
	if strings.Compare(early[5:], late[5:]) >= 0 {
		t.Errorf("timestamp suffixes not ordered: %q vs %q", early, late)
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a1b2-0065f3c2aa", true},
		{"0000-0000000000", true},
		{"", false},
		{"a1b2-0065f3c2a", false},    // timestamp too short
		{"a1b20065f3c2aa1", false},   // no separator
		{"A1B2-0065F3C2AA", false},   // uppercase
		{"a1b2-0065f3c2aaz", false},  // too long
		{"g1b2-0065f3c2aa", false},   // non-hex
		{"a1b2-0065f3c2aa\n", false}, // trailing garbage
	}
	for _, c := range cases {
		if got := Valid(c.in); got != c.want {
			t.Errorf("Valid(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTime_RoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	id := format(0x1234, now.Unix())
	got, err := Time(id)
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if !got.Equal(now) {
		t.Errorf("Time = %v, want %v", got, now)
	}
}

func TestTime_Malformed(t *testing.T) {
	if _, err := Time("not-an-id"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestNew_Distinct(t *testing.T) {
	// 16 random bits: a run of a few creations colliding on both the random
	// value and the second is practically impossible but not guaranteed, so
	// only check the set is not degenerate.
	seen := make(map[string]struct{})
	for i := 0; i < 8; i++ {
		seen[New()] = struct{}{}
	}
	if len(seen) < 2 {
		t.Errorf("8 creations yielded %d distinct ids", len(seen))
	}
}
