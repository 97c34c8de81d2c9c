package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("キャッシュが見つかりません")

// RatingCache は駐車場の平均評価のキャッシュを管理する
type RatingCache struct {
	client *redis.Client
}

// NewRatingCache は新しいRatingCacheインスタンスを作成する
func NewRatingCache(client *redis.Client) *RatingCache {
	return &RatingCache{client: client}
}

// GetAverage は駐車場の平均評価をキャッシュから取得する
func (c *RatingCache) GetAverage(ctx context.Context, parkingID string) (float64, error) {
	val, err := c.client.Get(ctx, c.averageKey(parkingID)).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAverage は駐車場の平均評価をキャッシュに保存する
func (c *RatingCache) SetAverage(ctx context.Context, parkingID string, avg float64, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.averageKey(parkingID), avg, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は駐車場のキャッシュを無効化する
func (c *RatingCache) Invalidate(ctx context.Context, parkingID string) error {
	if err := c.client.Del(ctx, c.averageKey(parkingID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *RatingCache) averageKey(parkingID string) string {
	return fmt.Sprintf("parkings:rating:%s", parkingID)
}
