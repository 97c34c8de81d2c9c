package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/slot"
)

func TestParkingHandler_Rating(t *testing.T) {
	e := NewTestEcho()

	t.Run("平均評価を取得できる", func(t *testing.T) {
		mockBooking := new(MockBookingService)
		mockBooking.On("ParkingAverageRating", mock.Anything, "parking-central").
			Return(7.5, true, nil)

		handler := NewParkingHandler(mockBooking)

		req := httptest.NewRequest(http.MethodGet, "/parkings/parking-central/rating", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("parking-central")

		err := handler.Rating(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ParkingRatingResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		require.NotNil(t, resp.Average)
		assert.Equal(t, 7.5, *resp.Average)

		mockBooking.AssertExpectations(t)
	})

	t.Run("評価が1件もない場合はnull", func(t *testing.T) {
		mockBooking := new(MockBookingService)
		mockBooking.On("ParkingAverageRating", mock.Anything, "parking-central").
			Return(0.0, false, nil)

		handler := NewParkingHandler(mockBooking)

		req := httptest.NewRequest(http.MethodGet, "/parkings/parking-central/rating", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("parking-central")

		err := handler.Rating(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"average":null`)
	})

	t.Run("駐車場が見つからない場合404", func(t *testing.T) {
		mockBooking := new(MockBookingService)
		mockBooking.On("ParkingAverageRating", mock.Anything, "nonexistent").
			Return(0.0, false, slot.ErrParkingNotFound)

		handler := NewParkingHandler(mockBooking)

		req := httptest.NewRequest(http.MethodGet, "/parkings/nonexistent/rating", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("nonexistent")

		err := handler.Rating(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}
