package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateDateRange(t *testing.T) {
	today := date(2025, 5, 20)

	tests := []struct {
		name        string
		start       time.Time
		end         time.Time
		errExpected error
	}{
		{name: "未来の正常な期間", start: date(2025, 6, 1), end: date(2025, 6, 3)},
		{name: "本日開始の期間", start: date(2025, 5, 20), end: date(2025, 5, 22)},
		{name: "同日開始・終了", start: date(2025, 6, 1), end: date(2025, 6, 1)},
		{name: "過去の開始日", start: date(2025, 5, 19), end: date(2025, 6, 1), errExpected: ErrDateInPast},
		{name: "終了日が開始日より前", start: date(2025, 6, 3), end: date(2025, 6, 1), errExpected: ErrEndBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateRange(tt.start, tt.end, today)
			if tt.errExpected != nil {
				assert.ErrorIs(t, err, tt.errExpected)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date(2025, 5, 20), date(2025, 5, 20)))
	assert.Equal(t, 6, DaysBetween(date(2025, 5, 14), date(2025, 5, 20)))
	assert.Equal(t, -3, DaysBetween(date(2025, 5, 20), date(2025, 5, 17)))
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2025, 5, 20, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, date(2025, 5, 20), got)
}
