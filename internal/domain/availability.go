package domain

import (
	"fmt"
	"time"
)

const MaxTimeSlots = 3

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (s TimeSlot) Window() (TimeWindow, error) {
	return NewTimeWindow(s.Start, s.End)
}

// WeeklyAvailability is the recurring default for one weekday of a trailer.
// Slots are ignored when Available is false.
type WeeklyAvailability struct {
	ID        int32      `json:"id"`
	TrailerID int32      `json:"trailerId"`
	Day       Weekday    `json:"day"`
	Available bool       `json:"available"`
	Slots     []TimeSlot `json:"timeSlots"`
	UpdatedOn time.Time  `json:"updatedOn"`
}

func (w *WeeklyAvailability) Validate() error {
	if _, err := ParseWeekday(string(w.Day)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(w.Slots) > MaxTimeSlots {
		return fmt.Errorf("%w: %s has %d time slots, at most %d allowed", ErrValidation, w.Day, len(w.Slots), MaxTimeSlots)
	}
	if !w.Available {
		return nil
	}
	for i, s := range w.Slots {
		if _, err := s.Window(); err != nil {
			return fmt.Errorf("%w: %s slot %d: %v", ErrValidation, w.Day, i+1, err)
		}
	}
	return nil
}

// SegmentOverride is the exception setting for one part of the day. Start
// and End replace the segment's default window when both are set.
type SegmentOverride struct {
	Available bool    `json:"available"`
	Start     *string `json:"start,omitempty"`
	End       *string `json:"end,omitempty"`
}

func (o SegmentOverride) validate(name string) error {
	if (o.Start == nil) != (o.End == nil) {
		return fmt.Errorf("%w: %s override needs both start and end", ErrValidation, name)
	}
	if o.Start != nil {
		if _, err := NewTimeWindow(*o.Start, *o.End); err != nil {
			return fmt.Errorf("%w: %s override: %v", ErrValidation, name, err)
		}
	}
	return nil
}

// AvailabilityException replaces the weekly default of a trailer for one date.
type AvailabilityException struct {
	ID        int32           `json:"id"`
	TrailerID int32           `json:"trailerId"`
	Date      Date            `json:"date"`
	Morning   SegmentOverride `json:"morning"`
	Afternoon SegmentOverride `json:"afternoon"`
	Evening   SegmentOverride `json:"evening"`
	CreatedOn time.Time       `json:"createdOn"`
	UpdatedOn time.Time       `json:"updatedOn"`
}

func (e *AvailabilityException) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: exception date is required", ErrValidation)
	}
	if err := e.Morning.validate("morning"); err != nil {
		return err
	}
	if err := e.Afternoon.validate("afternoon"); err != nil {
		return err
	}
	return e.Evening.validate("evening")
}

// AnyAvailable reports whether at least one segment is open.
func (e *AvailabilityException) AnyAvailable() bool {
	return e.Morning.Available || e.Afternoon.Available || e.Evening.Available
}
