package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending    RentalStatus = "PENDING"
	RentalStatusConfirmed  RentalStatus = "CONFIRMED"
	RentalStatusActive     RentalStatus = "ACTIVE"
	RentalStatusCancelled  RentalStatus = "CANCELLED"
	RentalStatusCompleted  RentalStatus = "COMPLETED"
	RentalStatusLateReturn RentalStatus = "LATE_RETURN"
	RentalStatusDisputed   RentalStatus = "DISPUTED"
)

// BlockingRentalStatuses occupy the trailer's calendar. PENDING requests do not.
var BlockingRentalStatuses = []RentalStatus{RentalStatusConfirmed, RentalStatusActive}

func (s RentalStatus) BlocksCalendar() bool {
	for _, b := range BlockingRentalStatuses {
		if s == b {
			return true
		}
	}
	return false
}

type Rental struct {
	ID         int32        `json:"id"`
	TrailerID  int32        `json:"trailerId"`
	RenterID   int32        `json:"renterId"`
	LessorID   int32        `json:"lessorId"`
	RenterName string       `json:"renterName"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	Status     RentalStatus `json:"status"`
}

// Covers reports whether the rental occupies d. Rentals are day granular.
func (r *Rental) Covers(d Date) bool {
	return d.Between(DateOf(r.StartDate), DateOf(r.EndDate))
}
