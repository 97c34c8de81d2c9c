package qrcode

import (
	"errors"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize はQRコード画像の既定の一辺ピクセル数
const DefaultSize = 300

// ErrEncodingFailed はペイロードがQR容量を超える等でエンコードできない場合のエラー
var ErrEncodingFailed = errors.New("QRコードの生成に失敗しました")

// Render はトークン文字列をPNG形式のQRコード画像に変換する
// 純粋な決定的変換であり、状態を持たない
func Render(token string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qr.Encode(token, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return png, nil
}
