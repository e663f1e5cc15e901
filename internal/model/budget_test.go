package model

import (
	"testing"
	"time"
)

func TestPeriodWindow_Monthly(t *testing.T) {
	start, end := PeriodMonthly.Window(mustDate(t, "2024-02-14"))
	if !start.Equal(mustDate(t, "2024-02-01")) {
		t.Fatalf("start = %s, want 2024-02-01", start.Format("2006-01-02"))
	}
	if !end.Equal(mustDate(t, "2024-03-01")) {
		t.Fatalf("end = %s, want 2024-03-01", end.Format("2006-01-02"))
	}
}

func TestPeriodWindow_WeeklyStartsMonday(t *testing.T) {
	// 2024-02-14 is a Wednesday.
	start, end := PeriodWeekly.Window(mustDate(t, "2024-02-14"))
	if !start.Equal(mustDate(t, "2024-02-12")) {
		t.Fatalf("start = %s, want Monday 2024-02-12", start.Format("2006-01-02"))
	}
	if !end.Equal(mustDate(t, "2024-02-19")) {
		t.Fatalf("end = %s, want 2024-02-19", end.Format("2006-01-02"))
	}

	// A Monday is its own week start.
	start, _ = PeriodWeekly.Window(mustDate(t, "2024-02-12"))
	if !start.Equal(mustDate(t, "2024-02-12")) {
		t.Fatalf("Monday start = %s, want itself", start.Format("2006-01-02"))
	}
}

func TestPeriodWindow_Yearly(t *testing.T) {
	start, end := PeriodYearly.Window(mustDate(t, "2024-07-04"))
	if !start.Equal(mustDate(t, "2024-01-01")) || !end.Equal(mustDate(t, "2025-01-01")) {
		t.Fatalf("window = [%s, %s)", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestPeriodWindow_HalfOpen(t *testing.T) {
	// The instant of the next period start belongs to the next window.
	boundary := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	start, _ := PeriodMonthly.Window(boundary)
	if !start.Equal(boundary) {
		t.Fatalf("boundary start = %s, want %s", start, boundary)
	}
}

func TestParsePeriodType(t *testing.T) {
	if pt, ok := ParsePeriodType("MONTHLY"); !ok || pt != PeriodMonthly {
		t.Fatalf("ParsePeriodType(MONTHLY) = %q, %v", pt, ok)
	}
	if _, ok := ParsePeriodType("fortnightly"); ok {
		t.Fatal("ParsePeriodType accepted invalid period")
	}
}
