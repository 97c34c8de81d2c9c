package reservation

import "time"

// Status は予約の状態を表す（DBには1文字コードで保存する）
type Status string

const (
	StatusActive    Status = "1"
	StatusCancelled Status = "0"
)

// Reservation は駐車区画の予約エンティティを表す
// Slot / Parking への参照はIDのみ（オブジェクトグラフは持たない）
type Reservation struct {
	ID          string
	UserID      string
	SlotID      string
	ParkingID   string
	StartDate   time.Time
	EndDate     time.Time
	CreatedDate time.Time
	Status      Status
	Rating      *int
}

// RatingMin / RatingMax は評価スコアの範囲（両端を含む）
const (
	RatingMin = 0
	RatingMax = 10
)

// NewReservation は新しいアクティブな予約を作成する
func NewReservation(userID, slotID, parkingID string, start, end, today time.Time) *Reservation {
	return &Reservation{
		UserID:      userID,
		SlotID:      slotID,
		ParkingID:   parkingID,
		StartDate:   DateOf(start),
		EndDate:     DateOf(end),
		CreatedDate: DateOf(today),
		Status:      StatusActive,
	}
}

// IsActive は予約がアクティブ（未キャンセル）かを返す
func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// Overlaps は指定期間と予約期間が重なるかを返す（閉区間比較）
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(DateOf(end)) && !r.EndDate.Before(DateOf(start))
}

// HasStarted は利用が開始済みかを返す
func (r *Reservation) HasStarted(today time.Time) bool {
	return !DateOf(today).Before(r.StartDate)
}

// HasEnded は利用が終了済みかを返す（終了日当日を含む）
func (r *Reservation) HasEnded(today time.Time) bool {
	return !DateOf(today).Before(r.EndDate)
}

// WithinStay は本日が利用期間内（開始日〜終了日）かを返す
func (r *Reservation) WithinStay(today time.Time) bool {
	d := DateOf(today)
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

// Cancel はキャンセルポリシーを評価し、許可される場合のみ状態を遷移する
//
// 利用開始後のキャンセルは不可。それ以外は以下のいずれかを満たせば許可する:
//   - 事前ルール: 本日 + graceDays 日が開始日より前
//   - 直近ルール: 予約作成から graceDays 日以内
func (r *Reservation) Cancel(today time.Time, graceDays int) error {
	if r.Status == StatusCancelled {
		return ErrReservationAlreadyCancelled
	}
	if r.HasStarted(today) {
		return ErrStayAlreadyStarted
	}

	d := DateOf(today)
	enoughNotice := d.AddDate(0, 0, graceDays).Before(r.StartDate)
	recentlyCreated := DaysBetween(r.CreatedDate, d) <= graceDays

	if !enoughNotice && !recentlyCreated {
		return ErrCancellationWindowClosed
	}

	r.Status = StatusCancelled
	return nil
}

// Rate は利用終了後に一度だけ評価スコアを設定する
func (r *Reservation) Rate(score int, today time.Time) error {
	if !r.HasEnded(today) {
		return ErrStayNotFinished
	}
	if r.Rating != nil {
		return ErrAlreadyRated
	}
	if score < RatingMin || score > RatingMax {
		return ErrRatingOutOfRange
	}
	r.Rating = &score
	return nil
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.SlotID == "" {
		return ErrSlotIDRequired
	}
	if r.ParkingID == "" {
		return ErrParkingIDRequired
	}
	if r.EndDate.Before(r.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}
