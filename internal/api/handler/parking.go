package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ParkingHandler は駐車場情報のハンドラー
type ParkingHandler struct {
	booking BookingServiceInterface
}

func NewParkingHandler(b BookingServiceInterface) *ParkingHandler {
	return &ParkingHandler{booking: b}
}

type ParkingRatingResponse struct {
	ParkingID string   `json:"parking_id" example:"parking-central"`
	Average   *float64 `json:"average"`
}

// Rating godoc
// @Summary 駐車場の平均評価を取得
// @Description 評価済み予約の平均点を返します。評価が1件もなければ average は null
// @Tags parkings
// @Produce json
// @Param id path string true "駐車場ID"
// @Success 200 {object} ParkingRatingResponse
// @Failure 404 {object} map[string]string
// @Router /parkings/{id}/rating [get]
func (h *ParkingHandler) Rating(c echo.Context) error {
	parkingID := c.Param("id")
	avg, rated, err := h.booking.ParkingAverageRating(c.Request().Context(), parkingID)
	if err != nil {
		return domainErrorToHTTP(err)
	}
	resp := ParkingRatingResponse{ParkingID: parkingID}
	if rated {
		resp.Average = &avg
	}
	return c.JSON(http.StatusOK, resp)
}
