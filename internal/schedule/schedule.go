package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDate   = errors.New("invalid date format")
	ErrInvalidTime   = errors.New("invalid time format")
	ErrEmptySlots    = errors.New("at least one time slot is required")
	ErrSlotOrder     = errors.New("slot end must be after start")
	ErrDuplicateSlot = errors.New("duplicate slot for start time and service type")
)

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// NormalizeDate truncates to midnight in the business timezone. Dates act
// as natural keys for availability documents, so every write path must
// normalize before touching storage.
func NormalizeDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

func IsDatePast(dateStr string, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	startToday := NormalizeDate(now, loc)
	return date.Before(startToday), nil
}

// Slot is the minimal shape ValidateSlots needs; availability handlers map
// their request DTOs into it.
type Slot struct {
	StartTime   string
	EndTime     string
	ServiceType string
}

// ValidateSlots checks clock formats, start < end, and rejects duplicate
// (startTime, serviceType) pairs within one date's slot list.
func ValidateSlots(slots []Slot) error {
	if len(slots) == 0 {
		return ErrEmptySlots
	}
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		start, err := ParseClockToMinutes(s.StartTime)
		if err != nil {
			return err
		}
		end, err := ParseClockToMinutes(s.EndTime)
		if err != nil {
			return err
		}
		if end <= start {
			return ErrSlotOrder
		}
		key := s.StartTime + "|" + s.ServiceType
		if _, ok := seen[key]; ok {
			return ErrDuplicateSlot
		}
		seen[key] = struct{}{}
	}
	return nil
}
