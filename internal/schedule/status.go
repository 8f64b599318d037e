package schedule

type DayStatus string

const (
	StatusAvailable   DayStatus = "available"
	StatusUnavailable DayStatus = "unavailable"
	StatusBlocked     DayStatus = "blocked"
	StatusRented      DayStatus = "rented"
)

func (s DayStatus) Bookable() bool {
	return s == StatusAvailable
}

// SlotVerdict is the answer to a sub-day availability query.
type SlotVerdict struct {
	Available bool      `json:"available"`
	Status    DayStatus `json:"status"`
	Reason    string    `json:"reason"`
}

const (
	ReasonRented        = "occupied by a rental"
	ReasonBlocked       = "blocked by the lessor"
	ReasonNoSchedule    = "no weekly schedule, open by default"
	ReasonClosedWeekday = "closed on this weekday"
	ReasonOpenAllDay    = "open with no time restriction"
	ReasonInsideSlot    = "inside a weekly time slot"
	ReasonOutsideSlots  = "outside the weekly time slots"
	ReasonExceptionOpen = "open by date exception"
	ReasonExceptionShut = "closed by date exception"
)
