// Package schedule resolves trailer availability from the weekly template,
// date exceptions, blocked periods and blocking rentals. It performs no I/O.
package schedule

import (
	"fmt"
	"sort"

	"buurbak-availability/internal/domain"
)

type weeklyDay struct {
	available bool
	slots     []domain.TimeWindow
}

type exceptionDay struct {
	open    [3]bool
	windows [3]domain.TimeWindow
}

// Snapshot holds every layer for one trailer over the loaded date range.
type Snapshot struct {
	trailer    domain.Trailer
	weekly     map[domain.Weekday]weeklyDay
	exceptions map[domain.Date]exceptionDay
	blocked    []domain.BlockedPeriod
	rentals    []domain.Rental
}

// NewSnapshot precomputes the weekly map and drops blocked periods and
// rentals that do not affect the trailer.
func NewSnapshot(
	trailer domain.Trailer,
	weekly []domain.WeeklyAvailability,
	exceptions []domain.AvailabilityException,
	blocked []domain.BlockedPeriod,
	rentals []domain.Rental,
) (*Snapshot, error) {
	s := &Snapshot{
		trailer:    trailer,
		weekly:     make(map[domain.Weekday]weeklyDay, len(weekly)),
		exceptions: make(map[domain.Date]exceptionDay, len(exceptions)),
	}

	for _, w := range weekly {
		day := weeklyDay{available: w.Available}
		if w.Available {
			for _, slot := range w.Slots {
				win, err := slot.Window()
				if err != nil {
					return nil, fmt.Errorf("trailer %d weekly %s: %w", trailer.ID, w.Day, err)
				}
				day.slots = append(day.slots, win)
			}
		}
		s.weekly[w.Day] = day
	}

	for i := range exceptions {
		e := &exceptions[i]
		var day exceptionDay
		for idx, seg := range segments {
			o := overrideFor(e, seg)
			day.open[idx] = o.Available
			day.windows[idx] = DefaultWindows[seg]
			if o.Start != nil && o.End != nil {
				win, err := domain.NewTimeWindow(*o.Start, *o.End)
				if err != nil {
					return nil, fmt.Errorf("trailer %d exception %s %s: %w", trailer.ID, e.Date, seg, err)
				}
				day.windows[idx] = win
			}
		}
		s.exceptions[e.Date] = day
	}

	for i := range blocked {
		if blocked[i].AppliesTo(&trailer) {
			s.blocked = append(s.blocked, blocked[i])
		}
	}

	for _, r := range rentals {
		if r.TrailerID == trailer.ID && r.Status.BlocksCalendar() {
			s.rentals = append(s.rentals, r)
		}
	}
	sort.SliceStable(s.rentals, func(i, j int) bool {
		return s.rentals[i].StartDate.Before(s.rentals[j].StartDate)
	})

	return s, nil
}

func (s *Snapshot) Trailer() domain.Trailer { return s.trailer }

// ResolveDayStatus applies the layers with precedence
// rented > blocked > unavailable > available.
func (s *Snapshot) ResolveDayStatus(d domain.Date) DayStatus {
	if s.rentalOn(d) != nil {
		return StatusRented
	}
	if s.blockedOn(d) {
		return StatusBlocked
	}
	if !s.openOn(d) {
		return StatusUnavailable
	}
	return StatusAvailable
}

// ResolveTimeSlot answers a sub-day query. Rentals and blocks are day
// granular and close every segment of their days.
func (s *Snapshot) ResolveTimeSlot(d domain.Date, q SlotQuery) SlotVerdict {
	if s.rentalOn(d) != nil {
		return SlotVerdict{Status: StatusRented, Reason: ReasonRented}
	}
	if s.blockedOn(d) {
		return SlotVerdict{Status: StatusBlocked, Reason: ReasonBlocked}
	}

	status := StatusAvailable
	if !s.openOn(d) {
		status = StatusUnavailable
	}

	if ex, ok := s.exceptions[d]; ok {
		if exceptionAllows(ex, q) {
			return SlotVerdict{Available: true, Status: status, Reason: ReasonExceptionOpen}
		}
		return SlotVerdict{Status: status, Reason: ReasonExceptionShut}
	}

	w, ok := s.weekly[d.Weekday()]
	switch {
	case !ok:
		return SlotVerdict{Available: true, Status: status, Reason: ReasonNoSchedule}
	case !w.available:
		return SlotVerdict{Status: status, Reason: ReasonClosedWeekday}
	case len(w.slots) == 0:
		return SlotVerdict{Available: true, Status: status, Reason: ReasonOpenAllDay}
	}

	hours := q.Hours()
	for _, slot := range w.slots {
		if q.IsSegment() && slot.Overlaps(hours) {
			return SlotVerdict{Available: true, Status: status, Reason: ReasonInsideSlot}
		}
		if !q.IsSegment() && slot.Contains(hours) {
			return SlotVerdict{Available: true, Status: status, Reason: ReasonInsideSlot}
		}
	}
	return SlotVerdict{Status: status, Reason: ReasonOutsideSlots}
}

func exceptionAllows(ex exceptionDay, q SlotQuery) bool {
	if q.IsSegment() {
		for idx, seg := range segments {
			if seg == q.Segment {
				return ex.open[idx]
			}
		}
		return false
	}
	for _, w := range openWindows(ex) {
		if w.Contains(q.Window) {
			return true
		}
	}
	return false
}

// openWindows returns the enabled segment windows of an exception, with
// touching or overlapping windows merged into one.
func openWindows(ex exceptionDay) []domain.TimeWindow {
	var open []domain.TimeWindow
	for idx := range segments {
		if ex.open[idx] {
			open = append(open, ex.windows[idx])
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Start < open[j].Start })

	var merged []domain.TimeWindow
	for _, w := range open {
		if n := len(merged); n > 0 && w.Start <= merged[n-1].End {
			if w.End > merged[n-1].End {
				merged[n-1].End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// openOn is the base availability before blocks and rentals. An exception
// replaces the weekly row for its date, and a missing weekly row means open.
func (s *Snapshot) openOn(d domain.Date) bool {
	if ex, ok := s.exceptions[d]; ok {
		return ex.open[0] || ex.open[1] || ex.open[2]
	}
	w, ok := s.weekly[d.Weekday()]
	if !ok {
		return true
	}
	return w.available
}

func (s *Snapshot) blockedOn(d domain.Date) bool {
	for i := range s.blocked {
		if s.blocked[i].Contains(d) {
			return true
		}
	}
	return false
}

func (s *Snapshot) rentalOn(d domain.Date) *domain.Rental {
	for i := range s.rentals {
		if s.rentals[i].Covers(d) {
			return &s.rentals[i]
		}
	}
	return nil
}
