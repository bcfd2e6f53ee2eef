package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-3,5", -350, true},
		{"0", 0, true},
		{"5e2", 50000, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		cents int64
		wire  string
	}{
		{50000, "500"},
		{1234, "12.34"},
		{-350, "-3.50"},
		{0, "0"},
	}
	for _, tc := range cases {
		data, err := json.Marshal(Money{Cents: tc.cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", tc.cents, err)
		}
		if string(data) != tc.wire {
			t.Fatalf("marshal %d = %s, want %s", tc.cents, data, tc.wire)
		}

		var back Money
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back.Cents != tc.cents {
			t.Fatalf("round trip %d -> %d", tc.cents, back.Cents)
		}
	}
}

func TestMoneyUnmarshalLenient(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"12.34"`), &m); err != nil || m.Cents != 1234 {
		t.Fatalf("quoted number: cents=%d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`null`), &m); err != nil || m.Cents != 0 {
		t.Fatalf("null: cents=%d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"nope"`), &m); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
}
