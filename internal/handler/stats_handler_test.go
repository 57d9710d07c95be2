package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatsHandler_Averages(t *testing.T) {
	couponID := uuid.New()
	jan := &model.DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC),
	}

	tests := []struct {
		name           string
		target         string
		pathID         string
		window         *model.DateRange
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{"path id", "/", couponID.String(), nil, nil, http.StatusOK, true},
		{"query id with dates", "/?couponId=" + couponID.String() + "&startDate=2025-01-01&endDate=2025-01-31", "", jan, nil, http.StatusOK, true},
		{"inverted window", "/?couponId=" + couponID.String() + "&startDate=2025-02-01&endDate=2025-01-01", "", &model.DateRange{
			Start: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 1, 23, 59, 59, 999999999, time.UTC),
		}, model.NewValidationError("startDate must not be after endDate"), http.StatusBadRequest, true},
		{"unknown coupon", "/", couponID.String(), nil, model.ErrCouponNotFound, http.StatusNotFound, true},
		{"missing id", "/", "", nil, nil, http.StatusBadRequest, false},
		{"only start", "/?couponId=" + couponID.String() + "&startDate=2025-01-01", "", nil, nil, http.StatusBadRequest, false},
		{"bad date", "/?couponId=" + couponID.String() + "&startDate=yesterday&endDate=2025-01-01", "", nil, nil, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockStatsService)
			h := NewStatsHandler(svc, zerolog.Nop())

			if tt.expectService {
				var ret []model.QuestionStat
				if tt.mockError == nil {
					ret = []model.QuestionStat{{QuestionID: uuid.New(), AverageRating: 4.5, TotalRatings: 2}}
				}
				svc.On("Averages", mock.Anything, couponID, tt.window).Return(ret, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.pathID != "" {
				req = withURLParams(req, "id", tt.pathID)
			}
			w := httptest.NewRecorder()

			h.Averages(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "Averages")
			}
		})
	}
}

func TestStatsHandler_Totals(t *testing.T) {
	couponID := uuid.New()
	svc := new(MockStatsService)
	h := NewStatsHandler(svc, zerolog.Nop())

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	svc.On("Totals", mock.Anything, couponID, &model.DateRange{Start: start, End: end}).
		Return([]model.QuestionTotal{{QuestionID: uuid.New(), TotalRating: 9}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/?startDate=2025-01-01T08:00:00Z&endDate=2025-01-02T08:00:00Z", nil)
	req = withURLParams(req, "id", couponID.String())
	w := httptest.NewRecorder()

	h.Totals(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestParseWindow(t *testing.T) {
	w, err := parseWindow("", "")
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = parseWindow("2025-03-01", "2025-03-01")
	require.NoError(t, err)
	assert.True(t, w.Contains(time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)))

	_, err = parseWindow("", "2025-03-01")
	assert.Error(t, err)
}
