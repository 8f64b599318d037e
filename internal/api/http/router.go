package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"buurbak-availability/internal/security"
	"buurbak-availability/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter registers every availability route. Route names key the
// security levels in config.EndpointSecurityConfig.
func NewRouter(svc service.AvailabilityService, tokens security.TokenManager, db Pinger) *mux.Router {
	h := NewAvailabilityHandler(svc)
	auth := &authMiddleware{tokens: tokens}

	router := mux.NewRouter()
	router.Use(requestLogger, auth.Middleware)

	router.HandleFunc("/healthz", healthHandler(db)).Methods("GET").Name("Health")

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/trailers/{id:[0-9]+}/status", h.GetDayStatus).Methods("GET").Name("GetDayStatus")
	v1.HandleFunc("/trailers/{id:[0-9]+}/slots", h.GetSlotAvailability).Methods("GET").Name("GetSlotAvailability")
	v1.HandleFunc("/trailers/{id:[0-9]+}/calendar", h.GetCalendar).Methods("GET").Name("GetCalendar")
	v1.HandleFunc("/trailers/{id:[0-9]+}/bookable", h.CheckBookable).Methods("GET").Name("CheckBookable")
	v1.HandleFunc("/trailers/{id:[0-9]+}/availability", h.GetWeeklyAvailability).Methods("GET").Name("GetWeeklyAvailability")
	v1.HandleFunc("/trailers/{id:[0-9]+}/availability", h.UpdateWeeklyAvailability).Methods("PUT").Name("UpdateWeeklyAvailability")
	v1.HandleFunc("/trailers/{id:[0-9]+}/exceptions", h.ListExceptions).Methods("GET").Name("ListExceptions")
	v1.HandleFunc("/trailers/{id:[0-9]+}/exceptions/{date}", h.UpsertException).Methods("PUT").Name("UpsertException")
	v1.HandleFunc("/trailers/{id:[0-9]+}/exceptions/{date}", h.DeleteException).Methods("DELETE").Name("DeleteException")
	v1.HandleFunc("/trailers/{id:[0-9]+}/selection/block", h.BlockSelection).Methods("POST").Name("BlockSelection")
	v1.HandleFunc("/trailers/{id:[0-9]+}/selection/unblock", h.UnblockSelection).Methods("POST").Name("UnblockSelection")
	v1.HandleFunc("/blocked-periods", h.ListBlockedPeriods).Methods("GET").Name("ListBlockedPeriods")
	v1.HandleFunc("/blocked-periods", h.AddBlockedPeriod).Methods("POST").Name("AddBlockedPeriod")
	v1.HandleFunc("/blocked-periods/{id:[0-9]+}", h.RemoveBlockedPeriod).Methods("DELETE").Name("RemoveBlockedPeriod")

	router.HandleFunc("/api/user/profile/lessor-calendar/availability", h.UpdateLessorCalendarAvailability).
		Methods("PUT").Name("UpdateLessorCalendarAvailability")

	return router
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
	}
}
