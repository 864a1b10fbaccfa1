package schedule

import (
	"errors"
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestNormalizeDate(t *testing.T) {
	loc := mustLoadLoc(t)
	in := time.Date(2025, 3, 1, 17, 45, 12, 0, loc)
	got := NormalizeDate(in, loc)
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("NormalizeDate = %v, want %v", got, want)
	}
}

func TestParseClockToMinutes(t *testing.T) {
	min, err := ParseClockToMinutes("10:30")
	if err != nil {
		t.Fatalf("ParseClockToMinutes error: %v", err)
	}
	if min != 630 {
		t.Fatalf("expected 630 minutes, got %d", min)
	}

	if _, err := ParseClockToMinutes("25:00"); err == nil {
		t.Fatalf("expected error for invalid clock")
	}
}

func TestIsDatePast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, loc)

	past, err := IsDatePast("2025-03-03", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if !past {
		t.Fatalf("expected date to be past")
	}

	past, err = IsDatePast("2025-03-04", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if past {
		t.Fatalf("expected today to be not past")
	}
}

func TestValidateSlots(t *testing.T) {
	tests := []struct {
		name  string
		slots []Slot
		want  error
	}{
		{
			name: "valid",
			slots: []Slot{
				{StartTime: "10:00", EndTime: "11:30", ServiceType: "CORE"},
				{StartTime: "10:00", EndTime: "14:00", ServiceType: "SAPPHIRE"},
			},
			want: nil,
		},
		{name: "empty", slots: nil, want: ErrEmptySlots},
		{
			name:  "bad clock",
			slots: []Slot{{StartTime: "10am", EndTime: "11:00", ServiceType: "CORE"}},
			want:  ErrInvalidTime,
		},
		{
			name:  "end before start",
			slots: []Slot{{StartTime: "11:00", EndTime: "10:00", ServiceType: "CORE"}},
			want:  ErrSlotOrder,
		},
		{
			name: "duplicate pair",
			slots: []Slot{
				{StartTime: "10:00", EndTime: "11:30", ServiceType: "CORE"},
				{StartTime: "10:00", EndTime: "12:00", ServiceType: "CORE"},
			},
			want: ErrDuplicateSlot,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSlots(tc.slots)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ValidateSlots = %v, want %v", err, tc.want)
			}
		})
	}
}
