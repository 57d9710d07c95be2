package handler

import (
	"net/http"

	"coupon-service/internal/middleware"
	"coupon-service/internal/model"
	"coupon-service/internal/service"

	"github.com/rs/zerolog"
)

// QuestionHandler handles survey question and rating HTTP requests.
type QuestionHandler struct {
	questions service.QuestionService
	ratings   service.RatingService
	logger    zerolog.Logger
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(questions service.QuestionService, ratings service.RatingService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		ratings:   ratings,
		logger:    logger.With().Str("handler", "question").Logger(),
	}
}

// ListByCoupon handles GET /api/coupons/{id}/questions requests.
func (h *QuestionHandler) ListByCoupon(w http.ResponseWriter, r *http.Request) {
	couponID, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	questions, err := h.questions.ListByCoupon(r.Context(), couponID)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve questions", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// Create handles POST /api/coupons/{id}/questions requests.
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	couponID, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req model.QuestionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	q, err := h.questions.Create(r.Context(), couponID, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create question", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, q)
}

// Update handles PUT /api/questions/{questionId} requests.
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "questionId", h.logger)
	if !ok {
		return
	}

	var req model.QuestionUpdateRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	q, err := h.questions.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to update question", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// Rate handles POST /api/questions/{questionId}/ratings requests. The
// rating is attributed to the authenticated caller.
func (h *QuestionHandler) Rate(w http.ResponseWriter, r *http.Request) {
	questionID, ok := uuidParam(w, r, "questionId", h.logger)
	if !ok {
		return
	}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Authentication token is required", h.logger)
		return
	}

	var req model.RatingRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user := model.User{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
	rating, err := h.ratings.Rate(r.Context(), questionID, user, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to record rating", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, rating)
}
