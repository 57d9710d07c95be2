package handler

import (
	"fmt"
	"net/http"
	"time"

	"coupon-service/internal/model"
	"coupon-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// StatsHandler serves rating statistics per coupon.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler creates a new statistics handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("handler", "stats").Logger(),
	}
}

// Averages handles GET /api/stats/coupons/{id}/averages and
// GET /api/stats/averages?couponId=&startDate=&endDate= requests.
func (h *StatsHandler) Averages(w http.ResponseWriter, r *http.Request) {
	couponID, window, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Averages(r.Context(), couponID, window)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve rating averages", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Totals handles GET /api/stats/coupons/{id}/totals and
// GET /api/stats/totals?couponId=&startDate=&endDate= requests.
func (h *StatsHandler) Totals(w http.ResponseWriter, r *http.Request) {
	couponID, window, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	totals, err := h.service.Totals(r.Context(), couponID, window)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve rating totals", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// parseQuery reads the coupon id from the path, falling back to the
// couponId query parameter, and the optional date window.
func (h *StatsHandler) parseQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, *model.DateRange, bool) {
	query := r.URL.Query()

	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = query.Get("couponId")
	}
	couponID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid couponId format", h.logger)
		return uuid.Nil, nil, false
	}

	window, err := parseWindow(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), h.logger)
		return uuid.Nil, nil, false
	}

	return couponID, window, true
}

// parseWindow returns nil when neither bound is given. A date-only end
// covers the whole day.
func parseWindow(start, end string) (*model.DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("startDate and endDate must be given together")
	}

	from, _, err := parseDate(start)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %s", start)
	}
	to, dateOnly, err := parseDate(end)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %s", end)
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	return &model.DateRange{Start: from, End: to}, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
