package model

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want Cents
	}{
		{"50", 5000},
		{"50.00", 5000},
		{"12.5", 1250},
		{"0.05", 5},
		{"100.999", 10099},
		{"-3.20", -320},
		{".50", 50},
		{" 7 ", 700},
	}
	for _, c := range cases {
		got, err := ParseCents(c.in)
		if err != nil {
			t.Fatalf("ParseCents(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseCents_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", ".", "-", "12,50", "1.-5", "+5"} {
		if _, err := ParseCents(in); err == nil {
			t.Fatalf("ParseCents(%q) succeeded, want error", in)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   Cents
		want string
	}{
		{5000, "50.00"},
		{5, "0.05"},
		{-320, "-3.20"},
		{0, "0.00"},
		{1250, "12.50"},
	}
	for _, c := range cases {
		if got := FormatCents(c.in); got != c.want {
			t.Fatalf("FormatCents(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, c := range []Cents{0, 1, 99, 100, 5000, -1250} {
		parsed, err := ParseCents(FormatCents(c))
		if err != nil {
			t.Fatalf("round trip %d: %v", c, err)
		}
		if parsed != c {
			t.Fatalf("round trip %d = %d", c, parsed)
		}
	}
}
