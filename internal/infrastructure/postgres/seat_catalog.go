package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
)

type seatRow struct {
	ID       string          `db:"id"`
	Category string          `db:"category"`
	Price    decimal.Decimal `db:"price"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return seat.NewSeat(r.ID, seat.Category(r.Category), r.Price)
}

// SeatCatalog は座席マスタのPostgreSQL実装
type SeatCatalog struct{ db *sqlx.DB }

func NewSeatCatalog(db *sqlx.DB) *SeatCatalog { return &SeatCatalog{db: db} }

// ListSeats は全座席をID順で返す。照合順序に依存しないようバイト順で並べる
func (c *SeatCatalog) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	var rows []seatRow
	if err := c.db.SelectContext(ctx, &rows, `SELECT id, category, price FROM seats ORDER BY id COLLATE "C"`); err != nil {
		return nil, booking.PersistenceFailure("座席マスタ取得", err)
	}
	return lo.Map(rows, func(row seatRow, _ int) *seat.Seat {
		return row.toEntity()
	}), nil
}

var _ seat.Catalog = (*SeatCatalog)(nil)
