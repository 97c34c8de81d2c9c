package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/user"
)

type userRow struct {
	ID    string         `db:"id"`
	Name  string         `db:"name"`
	Email string         `db:"email"`
	IBAN  sql.NullString `db:"iban"`
}

// UserRepository はユーザーコラボレーターの読み取り実装
type UserRepository struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var row userRow
	query := `SELECT id, name, email, iban FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	return &user.User{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		IBAN:  row.IBAN.String,
	}, nil
}

var _ user.Repository = (*UserRepository)(nil)
