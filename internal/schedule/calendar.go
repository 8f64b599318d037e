package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"

	"buurbak-availability/internal/domain"
)

type CalendarDay struct {
	Date       domain.Date `json:"date"`
	Status     DayStatus   `json:"status"`
	InMonth    bool        `json:"inMonth"`
	RenterName string      `json:"renterName,omitempty"`
}

// GridBounds returns the first and last day of the visible month grid,
// padded to whole weeks starting on weekStart.
func GridBounds(year int, month time.Month, weekStart time.Weekday) (domain.Date, domain.Date) {
	cfg := &now.Config{WeekStartDay: weekStart, TimeLocation: time.UTC}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	begin := cfg.With(cfg.With(first).BeginningOfMonth()).BeginningOfWeek()
	end := cfg.With(cfg.With(first).EndOfMonth()).EndOfWeek()
	return domain.DateOf(begin), domain.DateOf(end)
}

// Calendar resolves every day of the month grid. The snapshot must cover
// GridBounds for the same month.
func (s *Snapshot) Calendar(year int, month time.Month, weekStart time.Weekday) []CalendarDay {
	from, to := GridBounds(year, month, weekStart)
	var days []CalendarDay
	for d := from; !d.After(to); d = d.AddDays(1) {
		day := CalendarDay{
			Date:    d,
			Status:  s.ResolveDayStatus(d),
			InMonth: d.Year == year && d.Month == month,
		}
		if day.Status == StatusRented {
			day.RenterName = s.rentalOn(d).RenterName
		}
		days = append(days, day)
	}
	return days
}

type SelectionMode string

const (
	SelectionBlock   SelectionMode = "block"
	SelectionUnblock SelectionMode = "unblock"
)

func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(s) {
	case SelectionBlock, SelectionUnblock:
		return SelectionMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown selection mode %q", domain.ErrValidation, s)
}

// FilterSelection sorts and deduplicates the selected days. In block mode
// rented days cannot be selected. In unblock mode every day stays so the
// matching blocked periods can be found.
func (s *Snapshot) FilterSelection(mode SelectionMode, dates []domain.Date) []domain.Date {
	var out []domain.Date
	for _, d := range SortedUnique(dates) {
		if mode == SelectionBlock && s.ResolveDayStatus(d) == StatusRented {
			continue
		}
		out = append(out, d)
	}
	return out
}

type DateRange struct {
	Start domain.Date `json:"start"`
	End   domain.Date `json:"end"`
}

// ContiguousRanges groups days into inclusive runs of consecutive dates.
func ContiguousRanges(dates []domain.Date) []DateRange {
	var ranges []DateRange
	for _, d := range SortedUnique(dates) {
		if n := len(ranges); n > 0 && ranges[n-1].End.AddDays(1) == d {
			ranges[n-1].End = d
			continue
		}
		ranges = append(ranges, DateRange{Start: d, End: d})
	}
	return ranges
}

func SortedUnique(dates []domain.Date) []domain.Date {
	seen := make(map[domain.Date]struct{}, len(dates))
	out := make([]domain.Date, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

type DayConflict struct {
	Date   domain.Date `json:"date"`
	Status DayStatus   `json:"status"`
}

type RangeVerdict struct {
	Bookable  bool          `json:"bookable"`
	Conflicts []DayConflict `json:"conflicts"`
}

// CheckRange reports every non-available day in [start, end].
func (s *Snapshot) CheckRange(start, end domain.Date) RangeVerdict {
	v := RangeVerdict{Conflicts: []DayConflict{}}
	for d := start; !d.After(end); d = d.AddDays(1) {
		if st := s.ResolveDayStatus(d); !st.Bookable() {
			v.Conflicts = append(v.Conflicts, DayConflict{Date: d, Status: st})
		}
	}
	v.Bookable = len(v.Conflicts) == 0
	return v
}
