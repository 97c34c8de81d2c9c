package user

import (
	"context"
	"errors"
	"strings"
)

// User は予約者を表す
// プロフィール管理はコラボレーター側の責務であり、ここでは参照のみ
type User struct {
	ID    string
	Name  string
	Email string
	IBAN  string
}

var (
	ErrUserNotFound           = errors.New("ユーザーが見つかりません")
	ErrPaymentIdentityMissing = errors.New("支払い情報（IBAN）が登録されていません")
)

// HasPaymentIdentity は支払い情報が登録済みかを返す
// 予約作成の前提条件（IBANが空白のみの場合も未登録とみなす）
func (u *User) HasPaymentIdentity() bool {
	return strings.TrimSpace(u.IBAN) != ""
}

// Repository はユーザーコラボレーターへの参照インターフェース
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
