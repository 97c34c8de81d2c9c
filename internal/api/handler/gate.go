package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GateHandler は物理ゲートからの解錠要求を受けるハンドラー
type GateHandler struct {
	tokens AccessTokenServiceInterface
}

func NewGateHandler(t AccessTokenServiceInterface) *GateHandler {
	return &GateHandler{tokens: t}
}

type GateOpenRequest struct {
	Token     string `json:"token" validate:"required"`
	ParkingID string `json:"parking_id" validate:"required" example:"parking-central"`
}

type GateOpenResponse struct {
	Result        string `json:"result" example:"open"`
	UserID        string `json:"user_id"`
	ReservationID string `json:"reservation_id"`
	ParkingID     string `json:"parking_id"`
}

// Open godoc
// @Summary ゲートを解錠
// @Description QRコードから読み取ったトークンを検証し、開場可否を返します
// @Tags gate
// @Accept json
// @Produce json
// @Param request body GateOpenRequest true "トークンとゲートの駐車場ID"
// @Success 200 {object} GateOpenResponse
// @Failure 401 {object} map[string]string "トークン無効・期限切れ・駐車場不一致"
// @Router /gate/open [post]
func (h *GateHandler) Open(c echo.Context) error {
	var req GateOpenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	claims, err := h.tokens.RequestOpen(c.Request().Context(), req.Token, req.ParkingID)
	if err != nil {
		return domainErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, GateOpenResponse{
		Result:        "open",
		UserID:        claims.UserID,
		ReservationID: claims.ReservationID,
		ParkingID:     claims.ParkingID,
	})
}
