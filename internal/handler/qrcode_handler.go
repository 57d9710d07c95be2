package handler

import (
	"net/http"
	"strconv"

	"coupon-service/internal/model"
	"coupon-service/internal/service"

	"github.com/rs/zerolog"
)

// QRCodeHandler serves coupon QR codes and reads scanned ones.
type QRCodeHandler struct {
	service service.QRCodeService
	logger  zerolog.Logger
}

// NewQRCodeHandler creates a new QR code handler.
func NewQRCodeHandler(service service.QRCodeService, logger zerolog.Logger) *QRCodeHandler {
	return &QRCodeHandler{
		service: service,
		logger:  logger.With().Str("handler", "qrcode").Logger(),
	}
}

// Generate handles GET /api/coupons/{id}/qrcode requests. The image is
// returned raw with ?format=png, otherwise as JSON with a data URL.
func (h *QRCodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "png" && format != "json" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "format must be png or json", h.logger)
		return
	}

	artifact, err := h.service.Generate(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to generate qr code", h.logger)
		return
	}

	if format == "png" {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(artifact.PNG)))
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifact.PNG)
		return
	}

	writeJSON(w, http.StatusOK, artifact)
}

// Decrypt handles POST /api/qrcode/decrypt requests.
func (h *QRCodeHandler) Decrypt(w http.ResponseWriter, r *http.Request) {
	var req model.DecryptRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	p, err := h.service.Decode(r.Context(), req.EncryptedData)
	if err != nil {
		writeServiceError(w, r, err, "failed to decode qr code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
