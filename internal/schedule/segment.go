package schedule

import (
	"fmt"
	"strings"

	"buurbak-availability/internal/domain"
)

type Segment string

const (
	SegmentMorning   Segment = "morning"
	SegmentAfternoon Segment = "afternoon"
	SegmentEvening   Segment = "evening"
)

var segments = []Segment{SegmentMorning, SegmentAfternoon, SegmentEvening}

// DefaultWindows are the hours a segment covers unless an exception
// overrides them.
var DefaultWindows = map[Segment]domain.TimeWindow{
	SegmentMorning:   {Start: 6 * 60, End: 12 * 60},
	SegmentAfternoon: {Start: 12 * 60, End: 18 * 60},
	SegmentEvening:   {Start: 18 * 60, End: 23 * 60},
}

// SlotQuery asks about either a named segment or an explicit window.
type SlotQuery struct {
	Segment Segment
	Window  domain.TimeWindow
}

func (q SlotQuery) IsSegment() bool { return q.Segment != "" }

// Hours returns the window the query covers.
func (q SlotQuery) Hours() domain.TimeWindow {
	if q.IsSegment() {
		return DefaultWindows[q.Segment]
	}
	return q.Window
}

func (q SlotQuery) String() string {
	if q.IsSegment() {
		return string(q.Segment)
	}
	return q.Window.String()
}

// ParseSlotQuery accepts "morning", "afternoon", "evening" or "HH:MM-HH:MM".
func ParseSlotQuery(s string) (SlotQuery, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, seg := range segments {
		if v == string(seg) {
			return SlotQuery{Segment: seg}, nil
		}
	}
	w, err := domain.ParseTimeWindow(v)
	if err != nil {
		return SlotQuery{}, fmt.Errorf("%w: segment must be morning, afternoon, evening or HH:MM-HH:MM", domain.ErrValidation)
	}
	return SlotQuery{Window: w}, nil
}

func overrideFor(e *domain.AvailabilityException, seg Segment) domain.SegmentOverride {
	switch seg {
	case SegmentMorning:
		return e.Morning
	case SegmentAfternoon:
		return e.Afternoon
	default:
		return e.Evening
	}
}
