package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
)

// RatingRefresher は駐車場の平均評価を再計算するインターフェース
type RatingRefresher interface {
	RefreshParkingRatings(ctx context.Context) (int, error)
}

// ParkingRatingRefresher は平均評価キャッシュを定期的に温め直すワーカー
// キャッシュは評価投稿時にも無効化されるため、ここでの更新は取りこぼしの保険
type ParkingRatingRefresher struct {
	bookingService RatingRefresher
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewParkingRatingRefresher は新しいリフレッシャーを作成
func NewParkingRatingRefresher(bs RatingRefresher, interval time.Duration) *ParkingRatingRefresher {
	return &ParkingRatingRefresher{
		bookingService: bs,
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はリフレッシャーを開始
func (r *ParkingRatingRefresher) Start(ctx context.Context) {
	logger.Info("駐車場評価リフレッシャー開始",
		zap.Duration("interval", r.interval),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("駐車場評価リフレッシャー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("駐車場評価リフレッシャー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop はリフレッシャーを停止
func (r *ParkingRatingRefresher) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// refresh は評価済みの全駐車場の平均を再計算する
func (r *ParkingRatingRefresher) refresh(ctx context.Context) {
	log := logger.Get()
	log.Debug("駐車場評価の再計算開始")

	count, err := r.bookingService.RefreshParkingRatings(ctx)
	if err != nil {
		log.Error("駐車場評価の再計算失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("駐車場評価を更新", zap.Int("count", count))
	} else {
		log.Debug("評価済みの駐車場なし")
	}
}
