package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/schedule"
	"buurbak-availability/internal/service"
)

// AvailabilityHandler exposes AvailabilityService over JSON REST.
type AvailabilityHandler struct {
	svc service.AvailabilityService
}

func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func pathID(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, name, mux.Vars(r)[name])
	}
	return int32(v), nil
}

func queryDate(r *http.Request, name string) (domain.Date, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return domain.Date{}, fmt.Errorf("%w: query parameter %s is required", domain.ErrValidation, name)
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%w: %s: %v", domain.ErrValidation, name, err)
	}
	return d, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %s must be a number", domain.ErrValidation, name)
	}
	return v, nil
}

type dayStatusResponse struct {
	TrailerID int32              `json:"trailerId"`
	Date      domain.Date        `json:"date"`
	Status    schedule.DayStatus `json:"status"`
}

func (h *AvailabilityHandler) GetDayStatus(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := h.svc.ResolveDayStatus(r.Context(), trailerID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayStatusResponse{TrailerID: trailerID, Date: date, Status: status})
}

type slotResponse struct {
	TrailerID int32       `json:"trailerId"`
	Date      domain.Date `json:"date"`
	Segment   string      `json:"segment"`
	schedule.SlotVerdict
}

func (h *AvailabilityHandler) GetSlotAvailability(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	segment := r.URL.Query().Get("segment")
	v, err := h.svc.ResolveTimeSlotAvailability(r.Context(), trailerID, date, segment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slotResponse{TrailerID: trailerID, Date: date, Segment: segment, SlotVerdict: *v})
}

type calendarResponse struct {
	TrailerID int32                  `json:"trailerId"`
	Year      int                    `json:"year"`
	Month     int                    `json:"month"`
	Days      []schedule.CalendarDay `json:"days"`
}

func (h *AvailabilityHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := h.svc.GetCalendar(r.Context(), trailerID, year, time.Month(month))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{TrailerID: trailerID, Year: year, Month: month, Days: days})
}

type bookableResponse struct {
	TrailerID int32       `json:"trailerId"`
	Start     domain.Date `json:"start"`
	End       domain.Date `json:"end"`
	schedule.RangeVerdict
}

func (h *AvailabilityHandler) CheckBookable(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, err := queryDate(r, "start")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.svc.CheckBookable(r.Context(), trailerID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookableResponse{TrailerID: trailerID, Start: start, End: end, RangeVerdict: *v})
}

func (h *AvailabilityHandler) GetWeeklyAvailability(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	week, err := h.svc.GetWeeklyAvailability(r.Context(), trailerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newWeeklyResponse(trailerID, week))
}

func (h *AvailabilityHandler) UpdateWeeklyAvailability(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateWeeklyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.updateWeekly(w, r, trailerID, req.Days)
}

// UpdateLessorCalendarAvailability serves the profile screen route, which
// carries the trailer id in the body.
func (h *AvailabilityHandler) UpdateLessorCalendarAvailability(w http.ResponseWriter, r *http.Request) {
	var req lessorCalendarRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.updateWeekly(w, r, req.TrailerID, req.Days)
}

func (h *AvailabilityHandler) updateWeekly(w http.ResponseWriter, r *http.Request, trailerID int32, body []weeklyDay) {
	days, err := toDomainDays(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	week, err := h.svc.UpdateWeeklyAvailability(r.Context(), SessionFromContext(r.Context()), trailerID, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newWeeklyResponse(trailerID, week))
}

type exceptionsResponse struct {
	TrailerID  int32                          `json:"trailerId"`
	Exceptions []domain.AvailabilityException `json:"exceptions"`
}

func (h *AvailabilityHandler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.ListExceptions(r.Context(), trailerID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.AvailabilityException{}
	}
	writeJSON(w, http.StatusOK, exceptionsResponse{TrailerID: trailerID, Exceptions: list})
}

func (h *AvailabilityHandler) pathDate(r *http.Request) (domain.Date, error) {
	d, err := domain.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		return domain.Date{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return d, nil
}

func (h *AvailabilityHandler) UpsertException(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := h.pathDate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req exceptionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e := &domain.AvailabilityException{
		TrailerID: trailerID,
		Date:      date,
		Morning:   req.Morning.toDomain(),
		Afternoon: req.Afternoon.toDomain(),
		Evening:   req.Evening.toDomain(),
	}
	if err := h.svc.UpsertException(r.Context(), SessionFromContext(r.Context()), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *AvailabilityHandler) DeleteException(w http.ResponseWriter, r *http.Request) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := h.pathDate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteException(r.Context(), SessionFromContext(r.Context()), trailerID, date); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type blockedPeriodsResponse struct {
	BlockedPeriods []domain.BlockedPeriod `json:"blockedPeriods"`
}

func (h *AvailabilityHandler) ListBlockedPeriods(w http.ResponseWriter, r *http.Request) {
	var trailerID *int32
	if v := r.URL.Query().Get("trailerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil || id <= 0 {
			writeError(w, r, fmt.Errorf("%w: invalid trailerId %q", domain.ErrValidation, v))
			return
		}
		tid := int32(id)
		trailerID = &tid
	}
	periods, err := h.svc.ListBlockedPeriods(r.Context(), SessionFromContext(r.Context()), trailerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blockedPeriodsResponse{BlockedPeriods: periods})
}

func (h *AvailabilityHandler) AddBlockedPeriod(w http.ResponseWriter, r *http.Request) {
	var req blockedPeriodRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	dates, err := parseDates([]string{req.StartDate, req.EndDate})
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.AddBlockedPeriod(r.Context(), SessionFromContext(r.Context()), req.TrailerID, dates[0], dates[1], req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AvailabilityHandler) RemoveBlockedPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.RemoveBlockedPeriod(r.Context(), SessionFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type blockSelectionResponse struct {
	Created []domain.BlockedPeriod `json:"created"`
}

type unblockSelectionResponse struct {
	Removed []int32 `json:"removed"`
}

func (h *AvailabilityHandler) BlockSelection(w http.ResponseWriter, r *http.Request) {
	trailerID, dates, reason, err := h.selection(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.svc.BlockSelection(r.Context(), SessionFromContext(r.Context()), trailerID, dates, reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blockSelectionResponse{Created: created})
}

func (h *AvailabilityHandler) UnblockSelection(w http.ResponseWriter, r *http.Request) {
	trailerID, dates, _, err := h.selection(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	removed, err := h.svc.UnblockSelection(r.Context(), SessionFromContext(r.Context()), trailerID, dates)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unblockSelectionResponse{Removed: removed})
}

func (h *AvailabilityHandler) selection(r *http.Request) (int32, []domain.Date, string, error) {
	trailerID, err := pathID(r, "id")
	if err != nil {
		return 0, nil, "", err
	}
	var req selectionRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, "", err
	}
	dates, err := parseDates(req.Dates)
	if err != nil {
		return 0, nil, "", err
	}
	return trailerID, dates, req.Reason, nil
}
