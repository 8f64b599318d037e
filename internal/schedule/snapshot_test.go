package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buurbak-availability/internal/domain"
)

var trailer = domain.Trailer{ID: 7, OwnerID: 42, Name: "Bakwagen 750kg"}

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func strPtr(s string) *string { return &s }
func int32Ptr(v int32) *int32 { return &v }

func rental(t *testing.T, status domain.RentalStatus, start, end string) domain.Rental {
	t.Helper()
	return domain.Rental{
		ID:         1,
		TrailerID:  trailer.ID,
		RenterID:   99,
		LessorID:   trailer.OwnerID,
		RenterName: "Sanne",
		StartDate:  date(t, start).Time().Add(10 * time.Hour),
		EndDate:    date(t, end).Time().Add(17 * time.Hour),
		Status:     status,
	}
}

func mustSnapshot(t *testing.T, weekly []domain.WeeklyAvailability, exceptions []domain.AvailabilityException, blocked []domain.BlockedPeriod, rentals []domain.Rental) *Snapshot {
	t.Helper()
	s, err := NewSnapshot(trailer, weekly, exceptions, blocked, rentals)
	require.NoError(t, err)
	return s
}

func TestResolveDayStatus_NoWeeklyRowsIsAvailable(t *testing.T) {
	s := mustSnapshot(t, nil, nil, nil, nil)
	start := date(t, "2025-08-01")
	for i := 0; i < 60; i++ {
		assert.Equal(t, StatusAvailable, s.ResolveDayStatus(start.AddDays(i)))
	}
}

func TestResolveDayStatus_WeeklyTemplate(t *testing.T) {
	weekly := []domain.WeeklyAvailability{
		{TrailerID: trailer.ID, Day: domain.Monday, Available: true, Slots: []domain.TimeSlot{{Start: "09:00", End: "12:00"}}},
		{TrailerID: trailer.ID, Day: domain.Sunday, Available: false},
	}
	s := mustSnapshot(t, weekly, nil, nil, nil)

	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-11")))   // Monday
	assert.Equal(t, StatusUnavailable, s.ResolveDayStatus(date(t, "2025-08-10"))) // Sunday
	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-12")))   // Tuesday, no row
}

func TestResolveDayStatus_ExceptionReplacesWeekly(t *testing.T) {
	weekly := []domain.WeeklyAvailability{
		{TrailerID: trailer.ID, Day: domain.Sunday, Available: false},
		{TrailerID: trailer.ID, Day: domain.Monday, Available: true},
	}
	exceptions := []domain.AvailabilityException{
		{TrailerID: trailer.ID, Date: date(t, "2025-08-10"), Afternoon: domain.SegmentOverride{Available: true}},
		{TrailerID: trailer.ID, Date: date(t, "2025-08-11")},
	}
	s := mustSnapshot(t, weekly, exceptions, nil, nil)

	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-10")))
	assert.Equal(t, StatusUnavailable, s.ResolveDayStatus(date(t, "2025-08-11")))
	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-18")))
}

func TestResolveDayStatus_BlockedPeriodInclusive(t *testing.T) {
	blocked := []domain.BlockedPeriod{{
		ID: 1, UserID: trailer.OwnerID, TrailerID: int32Ptr(trailer.ID),
		StartDate: date(t, "2025-08-10"), EndDate: date(t, "2025-08-15"), Reason: "maintenance",
	}}
	s := mustSnapshot(t, nil, nil, blocked, nil)

	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-09")))
	for d := date(t, "2025-08-10"); !d.After(date(t, "2025-08-15")); d = d.AddDays(1) {
		assert.Equal(t, StatusBlocked, s.ResolveDayStatus(d), d.String())
	}
	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-16")))
}

func TestResolveDayStatus_BlockOverridesWeeklyAndException(t *testing.T) {
	weekly := []domain.WeeklyAvailability{{Day: domain.Monday, Available: false}}
	exceptions := []domain.AvailabilityException{{Date: date(t, "2025-08-12"), Morning: domain.SegmentOverride{Available: true}}}
	blocked := []domain.BlockedPeriod{{UserID: trailer.OwnerID, StartDate: date(t, "2025-08-11"), EndDate: date(t, "2025-08-12")}}
	s := mustSnapshot(t, weekly, exceptions, blocked, nil)

	assert.Equal(t, StatusBlocked, s.ResolveDayStatus(date(t, "2025-08-11")))
	assert.Equal(t, StatusBlocked, s.ResolveDayStatus(date(t, "2025-08-12")))
}

func TestResolveDayStatus_LessorWideAndForeignBlocks(t *testing.T) {
	blocked := []domain.BlockedPeriod{
		{ID: 1, UserID: trailer.OwnerID, StartDate: date(t, "2025-08-01"), EndDate: date(t, "2025-08-01")},
		{ID: 2, UserID: 1000, StartDate: date(t, "2025-08-02"), EndDate: date(t, "2025-08-02")},
		{ID: 3, UserID: trailer.OwnerID, TrailerID: int32Ptr(8), StartDate: date(t, "2025-08-03"), EndDate: date(t, "2025-08-03")},
	}
	s := mustSnapshot(t, nil, nil, blocked, nil)

	assert.Equal(t, StatusBlocked, s.ResolveDayStatus(date(t, "2025-08-01")))
	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-02")))
	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-08-03")))
}

func TestResolveDayStatus_RentedWinsOverBlocked(t *testing.T) {
	blocked := []domain.BlockedPeriod{{UserID: trailer.OwnerID, TrailerID: int32Ptr(trailer.ID), StartDate: date(t, "2025-09-02"), EndDate: date(t, "2025-09-04")}}
	rentals := []domain.Rental{rental(t, domain.RentalStatusConfirmed, "2025-09-01", "2025-09-05")}
	s := mustSnapshot(t, nil, nil, blocked, rentals)

	assert.Equal(t, StatusRented, s.ResolveDayStatus(date(t, "2025-09-03")))
	for d := date(t, "2025-09-01"); !d.After(date(t, "2025-09-05")); d = d.AddDays(1) {
		assert.Equal(t, StatusRented, s.ResolveDayStatus(d), d.String())
	}
	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-09-06")))
}

func TestResolveDayStatus_OnlyConfirmedAndActiveRentalsBlock(t *testing.T) {
	tests := []struct {
		status domain.RentalStatus
		want   DayStatus
	}{
		{domain.RentalStatusPending, StatusAvailable},
		{domain.RentalStatusConfirmed, StatusRented},
		{domain.RentalStatusActive, StatusRented},
		{domain.RentalStatusCancelled, StatusAvailable},
		{domain.RentalStatusCompleted, StatusAvailable},
		{domain.RentalStatusLateReturn, StatusAvailable},
		{domain.RentalStatusDisputed, StatusAvailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			s := mustSnapshot(t, nil, nil, nil, []domain.Rental{rental(t, tt.status, "2025-09-01", "2025-09-01")})
			assert.Equal(t, tt.want, s.ResolveDayStatus(date(t, "2025-09-01")))
		})
	}
}

func TestResolveDayStatus_RentalOfOtherTrailerIgnored(t *testing.T) {
	r := rental(t, domain.RentalStatusActive, "2025-09-01", "2025-09-03")
	r.TrailerID = 8
	s := mustSnapshot(t, nil, nil, nil, []domain.Rental{r})
	assert.Equal(t, StatusAvailable, s.ResolveDayStatus(date(t, "2025-09-02")))
}

func TestNewSnapshot_RejectsMalformedSlots(t *testing.T) {
	weekly := []domain.WeeklyAvailability{{Day: domain.Monday, Available: true, Slots: []domain.TimeSlot{{Start: "9am", End: "12:00"}}}}
	_, err := NewSnapshot(trailer, weekly, nil, nil, nil)
	assert.Error(t, err)

	exceptions := []domain.AvailabilityException{{Date: date(t, "2025-08-11"), Morning: domain.SegmentOverride{Available: true, Start: strPtr("11:00"), End: strPtr("10:00")}}}
	_, err = NewSnapshot(trailer, nil, exceptions, nil, nil)
	assert.Error(t, err)
}

func TestNewSnapshot_IgnoresSlotsOfClosedDay(t *testing.T) {
	weekly := []domain.WeeklyAvailability{{Day: domain.Monday, Available: false, Slots: []domain.TimeSlot{{Start: "", End: ""}}}}
	s, err := NewSnapshot(trailer, weekly, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusUnavailable, s.ResolveDayStatus(date(t, "2025-08-11")))
}

func slotQuery(t *testing.T, s string) SlotQuery {
	t.Helper()
	q, err := ParseSlotQuery(s)
	require.NoError(t, err)
	return q
}

func TestResolveTimeSlot_WeeklySlots(t *testing.T) {
	weekly := []domain.WeeklyAvailability{
		{Day: domain.Monday, Available: true, Slots: []domain.TimeSlot{{Start: "09:00", End: "12:00"}}},
		{Day: domain.Tuesday, Available: true},
		{Day: domain.Wednesday, Available: false},
	}
	s := mustSnapshot(t, weekly, nil, nil, nil)
	monday := date(t, "2025-08-11")

	v := s.ResolveTimeSlot(monday, slotQuery(t, "14:00-15:00"))
	assert.False(t, v.Available)
	assert.Equal(t, StatusAvailable, v.Status)
	assert.Equal(t, ReasonOutsideSlots, v.Reason)

	assert.True(t, s.ResolveTimeSlot(monday, slotQuery(t, "09:30-11:00")).Available)
	assert.False(t, s.ResolveTimeSlot(monday, slotQuery(t, "11:00-12:30")).Available)
	assert.True(t, s.ResolveTimeSlot(monday, slotQuery(t, "morning")).Available)
	assert.False(t, s.ResolveTimeSlot(monday, slotQuery(t, "afternoon")).Available)

	tuesday := date(t, "2025-08-12")
	v = s.ResolveTimeSlot(tuesday, slotQuery(t, "20:00-22:00"))
	assert.True(t, v.Available)
	assert.Equal(t, ReasonOpenAllDay, v.Reason)

	v = s.ResolveTimeSlot(date(t, "2025-08-13"), slotQuery(t, "morning"))
	assert.False(t, v.Available)
	assert.Equal(t, StatusUnavailable, v.Status)

	v = s.ResolveTimeSlot(date(t, "2025-08-14"), slotQuery(t, "evening"))
	assert.True(t, v.Available)
	assert.Equal(t, ReasonNoSchedule, v.Reason)
}

func TestResolveTimeSlot_ExceptionSegments(t *testing.T) {
	weekly := []domain.WeeklyAvailability{{Day: domain.Monday, Available: true, Slots: []domain.TimeSlot{{Start: "09:00", End: "12:00"}}}}
	exceptions := []domain.AvailabilityException{{
		Date:      date(t, "2025-08-11"),
		Morning:   domain.SegmentOverride{Available: false},
		Afternoon: domain.SegmentOverride{Available: true, Start: strPtr("13:00"), End: strPtr("16:00")},
		Evening:   domain.SegmentOverride{Available: true},
	}}
	s := mustSnapshot(t, weekly, exceptions, nil, nil)
	monday := date(t, "2025-08-11")

	assert.False(t, s.ResolveTimeSlot(monday, slotQuery(t, "morning")).Available)
	assert.False(t, s.ResolveTimeSlot(monday, slotQuery(t, "09:00-10:00")).Available)
	assert.True(t, s.ResolveTimeSlot(monday, slotQuery(t, "afternoon")).Available)
	assert.True(t, s.ResolveTimeSlot(monday, slotQuery(t, "14:00-15:00")).Available)
	assert.False(t, s.ResolveTimeSlot(monday, slotQuery(t, "12:00-13:00")).Available)
	assert.True(t, s.ResolveTimeSlot(monday, slotQuery(t, "19:00-21:00")).Available)

	v := s.ResolveTimeSlot(monday, slotQuery(t, "evening"))
	assert.Equal(t, ReasonExceptionOpen, v.Reason)
}

func TestResolveTimeSlot_ExceptionWindowAcrossSegments(t *testing.T) {
	monday := date(t, "2025-08-11")
	allDay := mustSnapshot(t, nil, []domain.AvailabilityException{{
		Date:      monday,
		Morning:   domain.SegmentOverride{Available: true},
		Afternoon: domain.SegmentOverride{Available: true},
		Evening:   domain.SegmentOverride{Available: true},
	}}, nil, nil)

	for _, q := range []string{"11:00-13:00", "06:00-23:00", "17:30-18:30"} {
		v := allDay.ResolveTimeSlot(monday, slotQuery(t, q))
		assert.True(t, v.Available, q)
		assert.Equal(t, ReasonExceptionOpen, v.Reason, q)
		assert.Equal(t, StatusAvailable, v.Status, q)
	}
	assert.False(t, allDay.ResolveTimeSlot(monday, slotQuery(t, "05:00-07:00")).Available)
	assert.False(t, allDay.ResolveTimeSlot(monday, slotQuery(t, "22:30-23:30")).Available)

	morningEvening := mustSnapshot(t, nil, []domain.AvailabilityException{{
		Date:    monday,
		Morning: domain.SegmentOverride{Available: true},
		Evening: domain.SegmentOverride{Available: true},
	}}, nil, nil)
	assert.False(t, morningEvening.ResolveTimeSlot(monday, slotQuery(t, "11:00-13:00")).Available)
	assert.True(t, morningEvening.ResolveTimeSlot(monday, slotQuery(t, "07:00-11:00")).Available)

	overlapping := mustSnapshot(t, nil, []domain.AvailabilityException{{
		Date:      monday,
		Morning:   domain.SegmentOverride{Available: true, Start: strPtr("08:00"), End: strPtr("14:00")},
		Afternoon: domain.SegmentOverride{Available: true, Start: strPtr("13:00"), End: strPtr("17:00")},
	}}, nil, nil)
	assert.True(t, overlapping.ResolveTimeSlot(monday, slotQuery(t, "09:00-16:30")).Available)
	assert.False(t, overlapping.ResolveTimeSlot(monday, slotQuery(t, "16:00-18:00")).Available)
}

func TestResolveTimeSlot_BlockedAndRentedCloseEverySegment(t *testing.T) {
	blocked := []domain.BlockedPeriod{{UserID: trailer.OwnerID, StartDate: date(t, "2025-08-11"), EndDate: date(t, "2025-08-11")}}
	rentals := []domain.Rental{rental(t, domain.RentalStatusActive, "2025-08-12", "2025-08-12")}
	s := mustSnapshot(t, nil, nil, blocked, rentals)

	for _, q := range []string{"morning", "afternoon", "evening", "10:00-11:00"} {
		v := s.ResolveTimeSlot(date(t, "2025-08-11"), slotQuery(t, q))
		assert.False(t, v.Available)
		assert.Equal(t, StatusBlocked, v.Status)

		v = s.ResolveTimeSlot(date(t, "2025-08-12"), slotQuery(t, q))
		assert.False(t, v.Available)
		assert.Equal(t, StatusRented, v.Status)
	}
}

func TestParseSlotQuery(t *testing.T) {
	q, err := ParseSlotQuery(" Morning ")
	require.NoError(t, err)
	assert.Equal(t, SegmentMorning, q.Segment)
	assert.Equal(t, DefaultWindows[SegmentMorning], q.Hours())

	q, err = ParseSlotQuery("14:00-15:30")
	require.NoError(t, err)
	assert.False(t, q.IsSegment())
	assert.Equal(t, "14:00-15:30", q.String())

	for _, bad := range []string{"", "night", "15:00-14:00", "14:00", "25:00-26:00"} {
		_, err := ParseSlotQuery(bad)
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}
