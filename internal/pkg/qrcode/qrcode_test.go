package qrcode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PNGファイルのマジックナンバー
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestRender_ProducesPNG(t *testing.T) {
	png, err := Render("eyJhbGciOiJIUzI1NiJ9.payload.signature", DefaultSize)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestRender_Deterministic(t *testing.T) {
	first, err := Render("same-token", 200)
	require.NoError(t, err)
	second, err := Render("same-token", 200)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_DefaultsSize(t *testing.T) {
	png, err := Render("token", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestRender_PayloadTooLong(t *testing.T) {
	// QRの最大容量を超えるペイロード
	_, err := Render(strings.Repeat("a", 8000), DefaultSize)
	assert.ErrorIs(t, err, ErrEncodingFailed)
}
