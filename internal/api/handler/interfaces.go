package handler

import (
	"context"

	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/access"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
)

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	Reserve(ctx context.Context, input application.ReserveInput) (*reservation.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID string) error
	Rate(ctx context.Context, userID, reservationID string, score int) error
	History(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error)
	ParkingAverageRating(ctx context.Context, parkingID string) (avg float64, rated bool, err error)
}

// AccessTokenServiceInterface はゲートトークンサービスのインターフェース
type AccessTokenServiceInterface interface {
	IssueQRCode(ctx context.Context, userID, reservationID string, size int) ([]byte, error)
	RequestOpen(ctx context.Context, token, parkingID string) (*access.Claims, error)
}
