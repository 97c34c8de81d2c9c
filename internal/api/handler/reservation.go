package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/qrcode"
)

const dateLayout = "2006-01-02"

type ReservationHandler struct {
	booking BookingServiceInterface
	tokens  AccessTokenServiceInterface
}

func NewReservationHandler(b BookingServiceInterface, t AccessTokenServiceInterface) *ReservationHandler {
	return &ReservationHandler{booking: b, tokens: t}
}

type CreateReservationRequest struct {
	SlotID    string `json:"slot_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	ParkingID string `json:"parking_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440001"`
	StartDate string `json:"start_date" validate:"required" example:"2026-09-10"`
	EndDate   string `json:"end_date" validate:"required" example:"2026-09-12"`
}

type CancelReservationRequest struct {
	ReservationID string `json:"reservation_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
}

type RateReservationRequest struct {
	Score int `json:"score" validate:"min=0,max=10" example:"8"`
}

type QRCodeRequest struct {
	ReservationID string `json:"reservation_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
}

type QRCodeResponse struct {
	QRImageBase64 string `json:"qr_image_base64"`
}

type ReservationResponse struct {
	ID          string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID      string `json:"user_id" example:"user-123"`
	SlotID      string `json:"slot_id" example:"slot-A1"`
	ParkingID   string `json:"parking_id" example:"parking-central"`
	StartDate   string `json:"start_date" example:"2026-09-10"`
	EndDate     string `json:"end_date" example:"2026-09-12"`
	CreatedDate string `json:"created_date" example:"2026-09-01"`
	Status      string `json:"status" example:"1"`
	Rating      *int   `json:"rating,omitempty" example:"8"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, UserID: r.UserID,
		SlotID: r.SlotID, ParkingID: r.ParkingID,
		StartDate:   r.StartDate.Format(dateLayout),
		EndDate:     r.EndDate.Format(dateLayout),
		CreatedDate: r.CreatedDate.Format(dateLayout),
		Status:      string(r.Status), Rating: r.Rating,
	}
}

func requireUserID(c echo.Context) (string, error) {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	return userID, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// Create godoc
// @Summary 予約を作成
// @Description 区画を指定期間で予約します（期間は両端を含む日単位）
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "期間が既存予約と重なっている"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開始日の形式が不正です")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "終了日の形式が不正です")
	}
	r, err := h.booking.Reserve(c.Request().Context(), application.ReserveInput{
		UserID: userID, SlotID: req.SlotID, ParkingID: req.ParkingID,
		StartDate: start, EndDate: end,
	})
	if err != nil {
		return domainErrorToHTTP(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 本人の予約をキャンセルポリシーに従ってキャンセルします
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CancelReservationRequest true "キャンセル対象"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "ポリシー違反"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/cancel [put]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CancelReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.booking.Cancel(c.Request().Context(), userID, req.ReservationID); err != nil {
		return domainErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// Rate godoc
// @Summary 予約を評価
// @Description 滞在終了後の予約に0〜10の評価を一度だけ付けます
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Param request body RateReservationRequest true "評価"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id}/rating [post]
func (h *ReservationHandler) Rate(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req RateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.booking.Rate(c.Request().Context(), userID, c.Param("id"), req.Score); err != nil {
		return domainErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "rated"})
}

// History godoc
// @Summary 予約履歴を取得
// @Description ログインユーザーの予約を作成日の降順で返します
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) History(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	reservations, err := h.booking.History(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return domainErrorToHTTP(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// QRCode godoc
// @Summary ゲート解錠用QRコードを発行
// @Description 滞在中の予約に対する解錠トークンをQRコード画像で返します
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body QRCodeRequest true "対象予約"
// @Success 200 {object} QRCodeResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string "滞在期間外または本人の予約でない"
// @Router /reservations/qr [post]
func (h *ReservationHandler) QRCode(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req QRCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	png, err := h.tokens.IssueQRCode(c.Request().Context(), userID, req.ReservationID, qrcode.DefaultSize)
	if err != nil {
		return domainErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, QRCodeResponse{
		QRImageBase64: base64.StdEncoding.EncodeToString(png),
	})
}
