package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/transaction"
)

// pgErrExclusionViolation は排他制約違反（期間の重なり）のSQLSTATE
const pgErrExclusionViolation = "23P01"

type reservationRow struct {
	ID          string        `db:"id"`
	UserID      string        `db:"user_id"`
	SlotID      string        `db:"slot_id"`
	ParkingID   string        `db:"parking_id"`
	StartDate   time.Time     `db:"start_date"`
	EndDate     time.Time     `db:"end_date"`
	CreatedDate time.Time     `db:"created_date"`
	Status      string        `db:"status"`
	Rating      sql.NullInt64 `db:"rating"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	res := &reservation.Reservation{
		ID:          r.ID,
		UserID:      r.UserID,
		SlotID:      r.SlotID,
		ParkingID:   r.ParkingID,
		StartDate:   reservation.DateOf(r.StartDate),
		EndDate:     reservation.DateOf(r.EndDate),
		CreatedDate: reservation.DateOf(r.CreatedDate),
		Status:      reservation.Status(r.Status),
	}
	if r.Rating.Valid {
		rating := int(r.Rating.Int64)
		res.Rating = &rating
	}
	return res
}

const reservationColumns = `id, user_id, slot_id, parking_id, start_date, end_date, created_date, status, rating`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create は予約を挿入する
// 期間の重なりはDBの排他制約（btree_gist）が最終防衛線となり、
// 違反時は ErrReservationConflict に変換する
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `INSERT INTO reservations (user_id, slot_id, parking_id, start_date, end_date, created_date, status) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := sqlxTx.QueryRowContext(ctx, query,
		res.UserID, res.SlotID, res.ParkingID,
		res.StartDate, res.EndDate, res.CreatedDate, string(res.Status),
	).Scan(&res.ID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == pgErrExclusionViolation {
			return reservation.ErrReservationConflict
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, slotID string, start, end time.Time) ([]*reservation.Reservation, error) {
	where, args := reservation.NewCriteria(
		reservation.BySlot(slotID),
		reservation.ActiveOnly(),
		reservation.Overlapping(start, end),
	).Where()

	var rows []reservationRow
	query := fmt.Sprintf(`SELECT %s FROM reservations %s`, reservationColumns, where)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("重複予約の検索に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*reservation.Reservation, error) {
	return r.getOne(ctx, reservation.ByID(id), reservation.ByUser(userID))
}

func (r *ReservationRepository) GetActiveByIDAndUser(ctx context.Context, id, userID string) (*reservation.Reservation, error) {
	return r.getOne(ctx, reservation.ByID(id), reservation.ByUser(userID), reservation.ActiveOnly())
}

func (r *ReservationRepository) getOne(ctx context.Context, filters ...reservation.Filter) (*reservation.Reservation, error) {
	where, args := reservation.NewCriteria(filters...).Where()

	var row reservationRow
	query := fmt.Sprintf(`SELECT %s FROM reservations %s`, reservationColumns, where)
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE user_id = $1 ORDER BY created_date DESC, id LIMIT $2 OFFSET $3`, reservationColumns)
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE reservations SET status = $1 WHERE id = $2`,
		string(res.Status), res.ID,
	)
	if err != nil {
		return fmt.Errorf("予約状態の更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) UpdateRating(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE reservations SET rating = $1 WHERE id = $2 AND rating IS NULL`,
		res.Rating, res.ID,
	)
	if err != nil {
		return fmt.Errorf("評価の更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrAlreadyRated
	}
	return nil
}

func (r *ReservationRepository) AverageRatingByParking(ctx context.Context, parkingID string) (float64, bool, error) {
	var avg sql.NullFloat64
	err := r.db.GetContext(ctx, &avg,
		`SELECT AVG(rating) FROM reservations WHERE parking_id = $1 AND rating IS NOT NULL`,
		parkingID,
	)
	if err != nil {
		return 0, false, fmt.Errorf("平均評価の取得に失敗: %w", err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

func (r *ReservationRepository) ParkingIDsWithRatings(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT parking_id FROM reservations WHERE rating IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("評価済み駐車場の取得に失敗: %w", err)
	}
	return ids, nil
}

func toEntities(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

var _ reservation.Repository = (*ReservationRepository)(nil)
