package access

import (
	"context"
	"errors"
)

// Subject はゲート解錠トークンのsubjectクレーム
const Subject = "open-gate"

// Claims はゲート解錠トークンに埋め込まれる情報
// クレデンシャルは永続化せず、署名と有効期限のみで検証する
type Claims struct {
	UserID        string
	ReservationID string
	ParkingID     string
}

var (
	ErrCredentialExpired = errors.New("アクセストークンの有効期限が切れています")
	ErrCredentialInvalid = errors.New("アクセストークンが不正です")
	ErrParkingMismatch   = errors.New("トークンの駐車場がゲートと一致しません")
)

// GateController は物理ゲート側の境界契約
// 読み取ったトークンとゲート自身の駐車場IDを提示し、開場可否の判定を受ける
type GateController interface {
	RequestOpen(ctx context.Context, token, parkingID string) (*Claims, error)
}
