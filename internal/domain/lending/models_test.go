package lending

import (
	"testing"
	"time"
)

func TestIsValidCondition(t *testing.T) {
	for _, c := range []string{"Good", "Fair", "Damaged", "Broken"} {
		if !IsValidCondition(c) {
			t.Errorf("IsValidCondition(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"good", "Pristine", ""} {
		if IsValidCondition(c) {
			t.Errorf("IsValidCondition(%q) = true, want false", c)
		}
	}
}

func TestTransactionOpen(t *testing.T) {
	cases := []struct {
		status string
		open   bool
	}{
		{StatusBorrowed, true},
		{StatusOverdue, true},
		{StatusReturned, false},
	}
	for _, c := range cases {
		tx := &Transaction{Status: c.status}
		if tx.Open() != c.open {
			t.Errorf("Open() with status %s = %v, want %v", c.status, tx.Open(), c.open)
		}
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2025, 1, 10, 1, 30, 0, 0, loc) // 2025-01-09 17:30 UTC
	got := DateOf(in)
	want := time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf(%v) = %v, want %v", in, got, want)
	}
}
