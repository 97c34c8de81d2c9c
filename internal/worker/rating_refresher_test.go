package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRatingRefresher はRatingRefresherのモック
type MockRatingRefresher struct {
	mock.Mock
}

func (m *MockRatingRefresher) RefreshParkingRatings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewParkingRatingRefresher(t *testing.T) {
	mockService := new(MockRatingRefresher)
	interval := 10 * time.Minute

	refresher := NewParkingRatingRefresher(mockService, interval)

	assert.NotNil(t, refresher)
	assert.Equal(t, interval, refresher.interval)
	assert.NotNil(t, refresher.stopCh)
	assert.NotNil(t, refresher.doneCh)
}

func TestParkingRatingRefresher_Refresh(t *testing.T) {
	t.Run("正常に再計算が実行される", func(t *testing.T) {
		mockService := new(MockRatingRefresher)
		mockService.On("RefreshParkingRatings", mock.Anything).Return(3, nil)

		refresher := NewParkingRatingRefresher(mockService, 1*time.Minute)

		refresher.refresh(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("評価済みの駐車場がない場合も正常に動作する", func(t *testing.T) {
		mockService := new(MockRatingRefresher)
		mockService.On("RefreshParkingRatings", mock.Anything).Return(0, nil)

		refresher := NewParkingRatingRefresher(mockService, 1*time.Minute)

		refresher.refresh(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("エラーが発生しても継続する", func(t *testing.T) {
		mockService := new(MockRatingRefresher)
		mockService.On("RefreshParkingRatings", mock.Anything).Return(0, assert.AnError)

		refresher := NewParkingRatingRefresher(mockService, 1*time.Minute)

		// パニックしないことを確認
		refresher.refresh(context.Background())

		mockService.AssertExpectations(t)
	})
}

func TestParkingRatingRefresher_StartStop(t *testing.T) {
	t.Run("開始と停止が正常に動作する", func(t *testing.T) {
		mockService := new(MockRatingRefresher)
		mockService.On("RefreshParkingRatings", mock.Anything).Return(0, nil).Maybe()

		refresher := NewParkingRatingRefresher(mockService, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go refresher.Start(ctx)

		time.Sleep(120 * time.Millisecond)

		refresher.Stop()

		select {
		case <-refresher.doneCh:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("refresher did not stop in time")
		}
	})

	t.Run("コンテキストキャンセルで停止する", func(t *testing.T) {
		mockService := new(MockRatingRefresher)
		mockService.On("RefreshParkingRatings", mock.Anything).Return(0, nil).Maybe()

		refresher := NewParkingRatingRefresher(mockService, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			refresher.Start(ctx)
			close(done)
		}()

		time.Sleep(80 * time.Millisecond)
		cancel()

		select {
		case <-done:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("refresher did not stop after context cancel")
		}
	})
}
