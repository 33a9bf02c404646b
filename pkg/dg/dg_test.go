package dg

import "testing"

func TestToDG(t *testing.T) {
	tests := []struct {
		decimal  int
		expected string
	}{
		{0, "0"},
		{5, "5"},
		{10, "X"},
		{11, "Y"},
		{12, "10"},
		{23, "1Y"},
		{25, "21"},
		{123, "X3"},
		{144, "100"},
		{-14, "-12"},
	}

	for _, tt := range tests {
		if got := ToDG(tt.decimal); got != tt.expected {
			t.Errorf("ToDG(%d) wrong. expected=%q, got=%q", tt.decimal, tt.expected, got)
		}
	}
}

func TestFromDG(t *testing.T) {
	tests := []struct {
		dg       string
		expected int
	}{
		{"0", 0},
		{"X", 10},
		{"Y", 11},
		{"10", 12},
		{"X3", 123},
		{"100", 144},
		{"-12", -14},
		{"005", 5},
	}

	for _, tt := range tests {
		got, err := FromDG(tt.dg)
		if err != nil {
			t.Fatalf("FromDG(%q) returned error: %v", tt.dg, err)
		}
		if got != tt.expected {
			t.Errorf("FromDG(%q) wrong. expected=%d, got=%d", tt.dg, tt.expected, got)
		}
	}
}

func TestFromDGErrors(t *testing.T) {
	for _, input := range []string{"", "-", "1Z", "x3", "1 2"} {
		if _, err := FromDG(input); err == nil {
			t.Errorf("FromDG(%q) should fail", input)
		}
	}
}

func TestAddDG(t *testing.T) {
	tests := []struct {
		a, b, expected string
	}{
		{"0", "0", "0"},
		{"5", "7", "10"},
		{"X3", "21", "104"},
		{"Y", "1", "10"},
		{"-12", "12", "0"},
	}

	for _, tt := range tests {
		got, err := AddDG(tt.a, tt.b)
		if err != nil {
			t.Fatalf("AddDG(%q, %q) returned error: %v", tt.a, tt.b, err)
		}
		if got != tt.expected {
			t.Errorf("AddDG(%q, %q) wrong. expected=%q, got=%q", tt.a, tt.b, tt.expected, got)
		}
	}

	if _, err := AddDG("1Z", "0"); err == nil {
		t.Error("AddDG with an invalid digit should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	for n := -200; n <= 200; n++ {
		back, err := FromDG(ToDG(n))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", n, err)
		}
		if back != n {
			t.Fatalf("round trip of %d wrong. got=%d (%q)", n, back, ToDG(n))
		}
	}
}
