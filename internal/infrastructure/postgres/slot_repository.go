package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/slot"
)

type slotRow struct {
	ID          string `db:"id"`
	ParkingID   string `db:"parking_id"`
	Electricity bool   `db:"electricity"`
	VIP         bool   `db:"vip"`
	Price       int    `db:"price"`
}

type parkingRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Address string `db:"address"`
}

// SlotRepository はカタログコラボレーターの読み取り実装
type SlotRepository struct{ db *sqlx.DB }

func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) GetByID(ctx context.Context, id string) (*slot.Slot, error) {
	var row slotRow
	query := `SELECT id, parking_id, electricity, vip, price FROM slots WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, slot.ErrSlotNotFound
		}
		return nil, fmt.Errorf("区画取得に失敗: %w", err)
	}
	return &slot.Slot{
		ID:          row.ID,
		ParkingID:   row.ParkingID,
		Electricity: row.Electricity,
		VIP:         row.VIP,
		Price:       row.Price,
	}, nil
}

func (r *SlotRepository) GetParkingByID(ctx context.Context, id string) (*slot.Parking, error) {
	var row parkingRow
	query := `SELECT id, name, address FROM parkings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, slot.ErrParkingNotFound
		}
		return nil, fmt.Errorf("駐車場取得に失敗: %w", err)
	}
	return &slot.Parking{ID: row.ID, Name: row.Name, Address: row.Address}, nil
}

var _ slot.Repository = (*SlotRepository)(nil)
