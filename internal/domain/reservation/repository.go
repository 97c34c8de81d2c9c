package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// 同一区画のアクティブな予約と期間が重なる場合は ErrReservationConflict を返す
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// FindOverlapping は区画の指定期間と重なるアクティブな予約を取得する
	FindOverlapping(ctx context.Context, slotID string, start, end time.Time) ([]*Reservation, error)

	// GetByIDAndUser はIDと所有者から予約を取得する（状態は問わない）
	GetByIDAndUser(ctx context.Context, id, userID string) (*Reservation, error)

	// GetActiveByIDAndUser はIDと所有者からアクティブな予約を取得する
	GetActiveByIDAndUser(ctx context.Context, id, userID string) (*Reservation, error)

	// ListByUser はユーザーの予約一覧を作成日の降順で取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// UpdateStatus は予約の状態を更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// UpdateRating は予約の評価スコアを更新する（トランザクション必須）
	UpdateRating(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// AverageRatingByParking は駐車場の評価スコアの平均を返す
	// 評価済みの予約が1件もない場合は ok=false を返す
	AverageRatingByParking(ctx context.Context, parkingID string) (avg float64, ok bool, err error)

	// ParkingIDsWithRatings は評価済みの予約を持つ駐車場IDの一覧を返す
	ParkingIDsWithRatings(ctx context.Context) ([]string, error)
}
