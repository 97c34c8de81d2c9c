package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/access"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/slot"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/user"
)

// domainErrorToHTTP はドメインエラーをHTTPエラーへ変換する。
// 未知のエラーは500として返す
func domainErrorToHTTP(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, slot.ErrSlotNotFound),
		errors.Is(err, slot.ErrParkingNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, reservation.ErrReservationConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, reservation.ErrDateInPast),
		errors.Is(err, reservation.ErrEndBeforeStart),
		errors.Is(err, reservation.ErrReservationAlreadyCancelled),
		errors.Is(err, reservation.ErrStayAlreadyStarted),
		errors.Is(err, reservation.ErrCancellationWindowClosed),
		errors.Is(err, reservation.ErrStayNotFinished),
		errors.Is(err, reservation.ErrAlreadyRated),
		errors.Is(err, reservation.ErrRatingOutOfRange),
		errors.Is(err, slot.ErrSlotNotInParking),
		errors.Is(err, user.ErrPaymentIdentityMissing):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, access.ErrCredentialExpired),
		errors.Is(err, access.ErrCredentialInvalid),
		errors.Is(err, access.ErrParkingMismatch):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
