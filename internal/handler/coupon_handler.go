package handler

import (
	"net/http"
	"strconv"

	"coupon-service/internal/model"
	"coupon-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CouponHandler handles coupon-related HTTP requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// Create handles POST /api/coupons requests.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CouponRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	c, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create coupon", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// List handles GET /api/coupons requests with pagination.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := defaultPageSize
	if s := query.Get("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 || limit > maxPageSize {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0
	if s := query.Get("offset"); s != "" {
		var err error
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid offset parameter", h.logger)
			return
		}
	}

	coupons, err := h.service.List(r.Context(), model.CouponFilter{
		CompanyName: query.Get("companyName"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve coupons", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupons)
}

// GetByID handles GET /api/coupons/{id} requests.
func (h *CouponHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve coupon", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// Update handles PUT /api/coupons/{id} requests.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req model.CouponRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	c, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to update coupon", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/coupons/{id} requests.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete coupon", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Claim handles POST /api/coupons/{id}/claim requests.
func (h *CouponHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	c, err := h.service.Claim(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to claim coupon", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// Redeem handles POST /api/coupons/redeem requests.
func (h *CouponHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req model.RedeemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	c, err := h.service.Redeem(r.Context(), req.CouponCode)
	if err != nil {
		writeServiceError(w, r, err, "failed to redeem coupon", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// BusinessStats handles GET /api/coupons/business/{companyName}/stats requests.
func (h *CouponHandler) BusinessStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.BusinessStats(r.Context(), chi.URLParam(r, "companyName"))
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve business stats", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
