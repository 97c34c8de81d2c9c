package reservation

import (
	"fmt"
	"strings"
	"time"
)

// Criteria は予約検索のWHERE句を組み立てるクエリビルダー
// 固定の名前付きフィルターを合成して条件を構築する
type Criteria struct {
	conds []string
	args  []any
}

// Filter は検索条件を1つ追加する関数
type Filter func(*Criteria)

// NewCriteria はフィルターを適用した検索条件を作成する
func NewCriteria(filters ...Filter) *Criteria {
	c := &Criteria{}
	for _, f := range filters {
		f(c)
	}
	return c
}

func (c *Criteria) add(cond string, args ...any) {
	c.conds = append(c.conds, cond)
	c.args = append(c.args, args...)
}

// Where はWHERE句（プレースホルダーは $n 形式）と引数を返す
// 条件が1つもない場合は空文字列を返す
func (c *Criteria) Where() (string, []any) {
	if len(c.conds) == 0 {
		return "", nil
	}
	clause := strings.Join(c.conds, " AND ")
	var b strings.Builder
	n := 0
	for _, ch := range clause {
		if ch == '?' {
			n++
			b.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		b.WriteRune(ch)
	}
	return "WHERE " + b.String(), c.args
}

// BySlot は区画IDで絞り込む
func BySlot(slotID string) Filter {
	return func(c *Criteria) { c.add("slot_id = ?", slotID) }
}

// ByUser はユーザーIDで絞り込む
func ByUser(userID string) Filter {
	return func(c *Criteria) { c.add("user_id = ?", userID) }
}

// ByID は予約IDで絞り込む
func ByID(id string) Filter {
	return func(c *Criteria) { c.add("id = ?", id) }
}

// ActiveOnly はアクティブな予約のみに絞り込む
func ActiveOnly() Filter {
	return func(c *Criteria) { c.add("status = ?", string(StatusActive)) }
}

// Overlapping は指定期間と重なる予約に絞り込む（閉区間比較）
func Overlapping(start, end time.Time) Filter {
	return func(c *Criteria) {
		c.add("start_date <= ? AND end_date >= ?", DateOf(end), DateOf(start))
	}
}
