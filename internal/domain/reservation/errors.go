package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound         = errors.New("予約が見つかりません")
	ErrReservationConflict         = errors.New("指定期間には既に他の予約が存在します")
	ErrReservationAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrStayAlreadyStarted          = errors.New("利用開始済みの予約はキャンセルできません")
	ErrCancellationWindowClosed    = errors.New("キャンセル可能な期間を過ぎています")
	ErrStayNotFinished             = errors.New("利用が終了していない予約は評価できません")
	ErrAlreadyRated                = errors.New("予約は既に評価済みです")
	ErrRatingOutOfRange            = errors.New("評価スコアは0から10の範囲で指定してください")
	ErrDateInPast                  = errors.New("過去の日付は指定できません")
	ErrEndBeforeStart              = errors.New("終了日は開始日以降を指定してください")
	ErrUserIDRequired              = errors.New("ユーザーIDは必須です")
	ErrSlotIDRequired              = errors.New("区画IDは必須です")
	ErrParkingIDRequired           = errors.New("駐車場IDは必須です")
)
