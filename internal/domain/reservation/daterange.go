package reservation

import "time"

// DateOf は時刻を切り捨てて日付（UTC深夜0時）に正規化する
// 予約期間の比較はすべて日単位の閉区間で行う
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween は from から to までの日数を返す（from < to なら正）
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// ValidateDateRange は予約期間の妥当性を検証する
// 他のフロー（検索等）からも共用される日付バリデーター
func ValidateDateRange(start, end, today time.Time) error {
	s, e, d := DateOf(start), DateOf(end), DateOf(today)
	if s.Before(d) || e.Before(d) {
		return ErrDateInPast
	}
	if e.Before(s) {
		return ErrEndBeforeStart
	}
	return nil
}
