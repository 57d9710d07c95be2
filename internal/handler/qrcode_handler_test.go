package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coupon-service/internal/model"
	"coupon-service/internal/payload"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQRCodeHandler_Generate(t *testing.T) {
	id := uuid.New()
	png := []byte{0x89, 'P', 'N', 'G'}
	artifact := &payload.Artifact{
		CouponCode: "ABCDE12345",
		Content:    "sealed",
		Encrypted:  true,
		PNG:        png,
		DataURL:    payload.DataURL(png),
		URL:        "https://bucket.example/qr.png",
	}

	t.Run("json", func(t *testing.T) {
		svc := new(MockQRCodeService)
		h := NewQRCodeHandler(svc, zerolog.Nop())
		svc.On("Generate", mock.Anything, id).Return(artifact, nil)

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
		w := httptest.NewRecorder()

		h.Generate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "sealed", body["content"])
		assert.Equal(t, artifact.DataURL, body["dataUrl"])
		assert.Equal(t, artifact.URL, body["url"])
		assert.NotContains(t, body, "PNG")
	})

	t.Run("png", func(t *testing.T) {
		svc := new(MockQRCodeService)
		h := NewQRCodeHandler(svc, zerolog.Nop())
		svc.On("Generate", mock.Anything, id).Return(artifact, nil)

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/?format=png", nil), "id", id.String())
		w := httptest.NewRecorder()

		h.Generate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, png, w.Body.Bytes())
	})

	t.Run("unknown format", func(t *testing.T) {
		svc := new(MockQRCodeService)
		h := NewQRCodeHandler(svc, zerolog.Nop())

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/?format=svg", nil), "id", id.String())
		w := httptest.NewRecorder()

		h.Generate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Generate")
	})

	t.Run("unknown coupon", func(t *testing.T) {
		svc := new(MockQRCodeService)
		h := NewQRCodeHandler(svc, zerolog.Nop())
		svc.On("Generate", mock.Anything, id).Return(nil, model.ErrCouponNotFound)

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
		w := httptest.NewRecorder()

		h.Generate(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestQRCodeHandler_Decrypt(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockReturn     *payload.Payload
		mockError      error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "success",
			body:           map[string]string{"encryptedData": "sealed"},
			mockReturn:     &payload.Payload{CouponCode: "ABCDE12345", ExpiryDate: "2030-01-01T00:00:00Z"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "tampered",
			body:           map[string]string{"encryptedData": "sealed"},
			mockError:      model.ErrDecryptFailure,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeDecryptFailure,
		},
		{
			name:           "malformed",
			body:           map[string]string{"encryptedData": "sealed"},
			mockError:      model.ErrMalformedPayload,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   model.ErrCodeMalformedPayload,
		},
		{
			name:           "missing data",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockQRCodeService)
			h := NewQRCodeHandler(svc, zerolog.Nop())

			if tt.body["encryptedData"] != "" {
				svc.On("Decode", mock.Anything, tt.body["encryptedData"]).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/qrcode/decrypt", jsonBody(t, tt.body))
			w := httptest.NewRecorder()

			h.Decrypt(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
				return
			}
			var p payload.Payload
			require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
			assert.Equal(t, *tt.mockReturn, p)
		})
	}
}
