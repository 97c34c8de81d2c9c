package slot

import "errors"

var (
	ErrSlotNotFound    = errors.New("駐車区画が見つかりません")
	ErrParkingNotFound = errors.New("駐車場が見つかりません")
	ErrSlotNotInParking = errors.New("指定された駐車場に属さない区画です")
)
