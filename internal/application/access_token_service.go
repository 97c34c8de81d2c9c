package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/config"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/access"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/qrcode"
)

// ReservationLookup はトークン発行対象の予約を提供する
// 本人所有・アクティブ・利用期間内の予約のみが返る
type ReservationLookup interface {
	GetForGateToken(ctx context.Context, userID, reservationID string) (*reservation.Reservation, error)
}

// gateClaims はゲート解錠トークンのJWTクレーム
type gateClaims struct {
	UserID        string `json:"uid"`
	ReservationID string `json:"rid"`
	ParkingID     string `json:"pid"`
	jwt.RegisteredClaims
}

// AccessTokenService はゲート解錠クレデンシャルの発行と検証を担う
// トークンは永続化せず、署名と有効期限のみで検証する
type AccessTokenService struct {
	secret  []byte
	ttl     time.Duration
	lookup  ReservationLookup
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAccessTokenService(cfg *config.GateConfig, lookup ReservationLookup, m *metrics.Metrics) *AccessTokenService {
	return &AccessTokenService{
		secret:  []byte(cfg.Secret),
		ttl:     cfg.TokenTTL,
		lookup:  lookup,
		metrics: m,
		now:     time.Now,
	}
}

// IssueGateToken は予約に紐づくゲート解錠トークンを発行する
// 発行対象は本人所有かつ利用期間内のアクティブな予約に限る
func (s *AccessTokenService) IssueGateToken(ctx context.Context, userID, reservationID string) (string, error) {
	res, err := s.lookup.GetForGateToken(ctx, userID, reservationID)
	if err != nil {
		return "", err
	}
	return s.sign(access.Claims{
		UserID:        res.UserID,
		ReservationID: res.ID,
		ParkingID:     res.ParkingID,
	})
}

func (s *AccessTokenService) sign(c access.Claims) (string, error) {
	now := s.now()
	claims := gateClaims{
		UserID:        c.UserID,
		ReservationID: c.ReservationID,
		ParkingID:     c.ParkingID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   access.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("トークン署名に失敗: %w", err)
	}
	return token, nil
}

// ValidateGateCredential は提示されたトークンを検証する
// 署名・有効期限・駐車場の一致を確認し、一致すればクレームを返す
func (s *AccessTokenService) ValidateGateCredential(tokenString, expectedParkingID string) (*access.Claims, error) {
	var claims gateClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("想定外の署名方式: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.countGateAccess("expired")
			return nil, access.ErrCredentialExpired
		}
		s.countGateAccess("invalid")
		return nil, access.ErrCredentialInvalid
	}
	if claims.Subject != access.Subject {
		s.countGateAccess("invalid")
		return nil, access.ErrCredentialInvalid
	}
	if claims.ParkingID != expectedParkingID {
		s.countGateAccess("mismatch")
		return nil, access.ErrParkingMismatch
	}

	s.countGateAccess("open")
	return &access.Claims{
		UserID:        claims.UserID,
		ReservationID: claims.ReservationID,
		ParkingID:     claims.ParkingID,
	}, nil
}

// RequestOpen はゲートからの開場要求を処理する（access.GateController 実装）
func (s *AccessTokenService) RequestOpen(ctx context.Context, token, parkingID string) (*access.Claims, error) {
	claims, err := s.ValidateGateCredential(token, parkingID)
	if err != nil {
		logger.Warn("ゲート開場を拒否",
			zap.String("parking_id", parkingID),
			zap.Error(err),
		)
		return nil, err
	}
	logger.Info("ゲートを開場",
		zap.String("parking_id", parkingID),
		zap.String("reservation_id", claims.ReservationID),
	)
	return claims, nil
}

// IssueQRCode はゲートトークンを発行し、QRコードPNGとして返す
func (s *AccessTokenService) IssueQRCode(ctx context.Context, userID, reservationID string, size int) ([]byte, error) {
	token, err := s.IssueGateToken(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Render(token, size)
	if err != nil {
		s.countQR("error")
		return nil, err
	}
	s.countQR("success")
	return png, nil
}

func (s *AccessTokenService) countGateAccess(result string) {
	if s.metrics != nil {
		s.metrics.GateAccessTotal.WithLabelValues(result).Inc()
	}
}

func (s *AccessTokenService) countQR(status string) {
	if s.metrics != nil {
		s.metrics.QRRenderedTotal.WithLabelValues(status).Inc()
	}
}

var _ access.GateController = (*AccessTokenService)(nil)
