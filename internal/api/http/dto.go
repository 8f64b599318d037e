package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"buurbak-availability/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseClock(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and runs struct validation.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrValidation, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// weeklyDay is the flat per-day shape used by the lessor calendar screens.
type weeklyDay struct {
	Day            string `json:"day" validate:"required"`
	Available      bool   `json:"available"`
	TimeSlot1Start string `json:"timeSlot1Start,omitempty" validate:"omitempty,clock"`
	TimeSlot1End   string `json:"timeSlot1End,omitempty" validate:"omitempty,clock"`
	TimeSlot2Start string `json:"timeSlot2Start,omitempty" validate:"omitempty,clock"`
	TimeSlot2End   string `json:"timeSlot2End,omitempty" validate:"omitempty,clock"`
	TimeSlot3Start string `json:"timeSlot3Start,omitempty" validate:"omitempty,clock"`
	TimeSlot3End   string `json:"timeSlot3End,omitempty" validate:"omitempty,clock"`
}

func (d weeklyDay) toDomain() (domain.WeeklyAvailability, error) {
	w := domain.WeeklyAvailability{Day: domain.Weekday(strings.ToUpper(strings.TrimSpace(d.Day))), Available: d.Available}
	pairs := [][2]string{
		{d.TimeSlot1Start, d.TimeSlot1End},
		{d.TimeSlot2Start, d.TimeSlot2End},
		{d.TimeSlot3Start, d.TimeSlot3End},
	}
	for i, p := range pairs {
		if (p[0] == "") != (p[1] == "") {
			return w, fmt.Errorf("%w: %s time slot %d needs both start and end", domain.ErrValidation, d.Day, i+1)
		}
		if p[0] != "" {
			w.Slots = append(w.Slots, domain.TimeSlot{Start: p[0], End: p[1]})
		}
	}
	return w, nil
}

func weeklyDayFrom(w domain.WeeklyAvailability) weeklyDay {
	d := weeklyDay{Day: string(w.Day), Available: w.Available}
	starts := []*string{&d.TimeSlot1Start, &d.TimeSlot2Start, &d.TimeSlot3Start}
	ends := []*string{&d.TimeSlot1End, &d.TimeSlot2End, &d.TimeSlot3End}
	for i, s := range w.Slots {
		if i >= domain.MaxTimeSlots {
			break
		}
		*starts[i], *ends[i] = s.Start, s.End
	}
	return d
}

type weeklyResponse struct {
	TrailerID int32       `json:"trailerId"`
	Days      []weeklyDay `json:"days"`
}

func newWeeklyResponse(trailerID int32, week []domain.WeeklyAvailability) weeklyResponse {
	resp := weeklyResponse{TrailerID: trailerID, Days: make([]weeklyDay, 0, len(week))}
	for _, w := range week {
		resp.Days = append(resp.Days, weeklyDayFrom(w))
	}
	return resp
}

type updateWeeklyRequest struct {
	Days []weeklyDay `json:"days" validate:"required,min=1,max=7,dive"`
}

type lessorCalendarRequest struct {
	TrailerID int32       `json:"trailerId" validate:"required,gt=0"`
	Days      []weeklyDay `json:"days" validate:"required,min=1,max=7,dive"`
}

func toDomainDays(days []weeklyDay) ([]domain.WeeklyAvailability, error) {
	out := make([]domain.WeeklyAvailability, 0, len(days))
	for _, d := range days {
		w, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

type segmentRequest struct {
	Available bool    `json:"available"`
	Start     *string `json:"start,omitempty" validate:"omitempty,clock"`
	End       *string `json:"end,omitempty" validate:"omitempty,clock"`
}

func (s segmentRequest) toDomain() domain.SegmentOverride {
	return domain.SegmentOverride{Available: s.Available, Start: s.Start, End: s.End}
}

type exceptionRequest struct {
	Morning   segmentRequest `json:"morning"`
	Afternoon segmentRequest `json:"afternoon"`
	Evening   segmentRequest `json:"evening"`
}

type blockedPeriodRequest struct {
	TrailerID *int32 `json:"trailerId,omitempty" validate:"omitempty,gt=0"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason,omitempty" validate:"max=255"`
}

type selectionRequest struct {
	Dates  []string `json:"dates" validate:"required,min=1,max=366,dive,datetime=2006-01-02"`
	Reason string   `json:"reason,omitempty" validate:"max=255"`
}

func parseDates(values []string) ([]domain.Date, error) {
	out := make([]domain.Date, 0, len(values))
	for _, v := range values {
		d, err := domain.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		out = append(out, d)
	}
	return out, nil
}
