package slot

import "context"

// Slot は駐車区画を表す
// カタログ側が所有するデータであり、予約側からは読み取り専用
type Slot struct {
	ID          string
	ParkingID   string
	Electricity bool
	VIP         bool
	Price       int
}

// Parking は駐車場を表す
type Parking struct {
	ID      string
	Name    string
	Address string
}

// Repository はカタログコラボレーターへの参照インターフェース
type Repository interface {
	// GetByID は区画をIDから取得する
	GetByID(ctx context.Context, id string) (*Slot, error)

	// GetParkingByID は駐車場をIDから取得する
	GetParkingByID(ctx context.Context, id string) (*Parking, error)
}
