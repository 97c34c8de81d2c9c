package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/slot"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-parking-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/metrics"
)

const (
	slotLockTTL        = 10 * time.Second
	slotLockMaxRetries = 3
	slotLockRetryDelay = 100 * time.Millisecond
	ratingCacheTTL     = 10 * time.Minute
)

// BookingService は予約の作成・キャンセル・評価・照会を担う
type BookingService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	slotRepo        slot.Repository
	userRepo        user.Repository
	lockManager     *redisinfra.LockManager
	ratingCache     *redisinfra.RatingCache
	metrics         *metrics.Metrics
	graceDays       int
	now             func() time.Time
}

func NewBookingService(
	tm transaction.Manager,
	rr reservation.Repository,
	sr slot.Repository,
	ur user.Repository,
	lm *redisinfra.LockManager,
	rc *redisinfra.RatingCache,
	m *metrics.Metrics,
	graceDays int,
) *BookingService {
	return &BookingService{
		txManager:       tm,
		reservationRepo: rr,
		slotRepo:        sr,
		userRepo:        ur,
		lockManager:     lm,
		ratingCache:     rc,
		metrics:         m,
		graceDays:       graceDays,
		now:             time.Now,
	}
}

// ReserveInput は予約作成の入力
type ReserveInput struct {
	UserID    string
	SlotID    string
	ParkingID string
	StartDate time.Time
	EndDate   time.Time
}

// IsAvailable は区画が指定期間に予約可能かを返す
// アクティブな予約と1日でも重なれば不可（閉区間比較）
func (s *BookingService) IsAvailable(ctx context.Context, slotID string, start, end time.Time) (bool, error) {
	overlapping, err := s.reservationRepo.FindOverlapping(ctx, slotID, start, end)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

// Reserve は新しい予約を作成する
//
// 空き確認と挿入は区画単位の分散ロックで直列化し、最終的な重なり排除は
// DBの排他制約が保証する（制約違反は ErrReservationConflict になる）
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*reservation.Reservation, error) {
	today := s.now()

	if err := reservation.ValidateDateRange(input.StartDate, input.EndDate, today); err != nil {
		s.countReservation("rejected")
		return nil, err
	}

	// 支払い情報の事前条件
	u, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		s.countReservation("rejected")
		return nil, err
	}
	if !u.HasPaymentIdentity() {
		s.countReservation("rejected")
		return nil, user.ErrPaymentIdentityMissing
	}

	// 区画と駐車場の対応を確認
	sl, err := s.slotRepo.GetByID(ctx, input.SlotID)
	if err != nil {
		s.countReservation("rejected")
		return nil, err
	}
	if sl.ParkingID != input.ParkingID {
		s.countReservation("rejected")
		return nil, slot.ErrSlotNotInParking
	}

	// 区画ロックを取得して確認と挿入を直列化する
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireSlotLockWithRetry(ctx, input.SlotID, slotLockTTL, slotLockMaxRetries, slotLockRetryDelay)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countReservation("conflict")
				return nil, reservation.ErrReservationConflict
			}
			s.countReservation("error")
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	available, err := s.IsAvailable(ctx, input.SlotID, input.StartDate, input.EndDate)
	if err != nil {
		s.countReservation("error")
		return nil, err
	}
	if !available {
		s.countReservation("conflict")
		return nil, reservation.ErrReservationConflict
	}

	res := reservation.NewReservation(input.UserID, input.SlotID, input.ParkingID, input.StartDate, input.EndDate, today)
	if err := res.Validate(); err != nil {
		s.countReservation("rejected")
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.countReservation("error")
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		if errors.Is(err, reservation.ErrReservationConflict) {
			s.countReservation("conflict")
		} else {
			s.countReservation("error")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countReservation("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countReservation("success")
	logger.Info("予約を作成",
		zap.String("reservation_id", res.ID),
		zap.String("slot_id", res.SlotID),
		zap.String("user_id", res.UserID),
	)
	return res, nil
}

// Cancel はキャンセルポリシーを評価した上で予約をキャンセルする
// 他人の予約やキャンセル済みの予約は存在を漏らさず NotFound として扱う
func (s *BookingService) Cancel(ctx context.Context, userID, reservationID string) error {
	res, err := s.reservationRepo.GetActiveByIDAndUser(ctx, reservationID, userID)
	if err != nil {
		s.countCancellation("not_found")
		return err
	}

	if err := res.Cancel(s.now(), s.graceDays); err != nil {
		switch {
		case errors.Is(err, reservation.ErrStayAlreadyStarted):
			s.countCancellation("started")
		case errors.Is(err, reservation.ErrCancellationWindowClosed):
			s.countCancellation("window_closed")
		default:
			s.countCancellation("error")
		}
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.countCancellation("error")
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.UpdateStatus(ctx, tx, res); err != nil {
		s.countCancellation("error")
		return err
	}
	if err := tx.Commit(); err != nil {
		s.countCancellation("error")
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countCancellation("success")
	logger.Info("予約をキャンセル",
		zap.String("reservation_id", res.ID),
		zap.String("user_id", userID),
	)
	return nil
}

// Rate は利用終了後の予約に評価スコアを設定する
func (s *BookingService) Rate(ctx context.Context, userID, reservationID string, score int) error {
	res, err := s.reservationRepo.GetByIDAndUser(ctx, reservationID, userID)
	if err != nil {
		return err
	}

	if err := res.Rate(score, s.now()); err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.UpdateRating(ctx, tx, res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	// 評価が変わったのでキャッシュを捨てる
	if s.ratingCache != nil {
		if err := s.ratingCache.Invalidate(ctx, res.ParkingID); err != nil {
			logger.Warn("評価キャッシュの無効化に失敗", zap.Error(err))
		}
	}
	return nil
}

// History はユーザーの予約履歴を作成日の降順で返す
func (s *BookingService) History(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.reservationRepo.ListByUser(ctx, userID, limit, offset)
}

// GetForGateToken はゲートトークン発行対象の予約を取得する
// 本人所有かつアクティブで、本日が利用期間内であること
func (s *BookingService) GetForGateToken(ctx context.Context, userID, reservationID string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetActiveByIDAndUser(ctx, reservationID, userID)
	if err != nil {
		return nil, err
	}
	if !res.WithinStay(s.now()) {
		return nil, reservation.ErrReservationNotFound
	}
	return res, nil
}

// ParkingAverageRating は駐車場の平均評価を返す（キャッシュ優先）
// 評価がまだ1件もない場合は rated=false
func (s *BookingService) ParkingAverageRating(ctx context.Context, parkingID string) (avg float64, rated bool, err error) {
	if _, err := s.slotRepo.GetParkingByID(ctx, parkingID); err != nil {
		return 0, false, err
	}

	if s.ratingCache != nil {
		if cached, err := s.ratingCache.GetAverage(ctx, parkingID); err == nil {
			return cached, true, nil
		}
	}

	avg, rated, err = s.reservationRepo.AverageRatingByParking(ctx, parkingID)
	if err != nil {
		return 0, false, err
	}
	if rated && s.ratingCache != nil {
		if err := s.ratingCache.SetAverage(ctx, parkingID, avg, ratingCacheTTL); err != nil {
			logger.Warn("評価キャッシュの保存に失敗", zap.Error(err))
		}
	}
	return avg, rated, nil
}

// RefreshParkingRatings は評価済みの全駐車場の平均評価をキャッシュへ再計算する
// 更新した駐車場数を返す
func (s *BookingService) RefreshParkingRatings(ctx context.Context) (int, error) {
	if s.ratingCache == nil {
		return 0, nil
	}
	parkingIDs, err := s.reservationRepo.ParkingIDsWithRatings(ctx)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, id := range parkingIDs {
		avg, rated, err := s.reservationRepo.AverageRatingByParking(ctx, id)
		if err != nil {
			return refreshed, err
		}
		if !rated {
			continue
		}
		if err := s.ratingCache.SetAverage(ctx, id, avg, ratingCacheTTL); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *BookingService) countReservation(status string) {
	if s.metrics != nil {
		s.metrics.ReservationsTotal.WithLabelValues(status).Inc()
	}
}

func (s *BookingService) countCancellation(status string) {
	if s.metrics != nil {
		s.metrics.CancellationsTotal.WithLabelValues(status).Inc()
	}
}
