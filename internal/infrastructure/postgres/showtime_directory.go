package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
)

type showTimeRow struct {
	ID         int64     `db:"id"`
	MovieID    int64     `db:"movie_id"`
	MovieTitle string    `db:"movie_title"`
	ShowDate   time.Time `db:"show_date"`
	StartAt    time.Time `db:"start_at"`
	EndAt      time.Time `db:"end_at"`
}

func (r *showTimeRow) toEntity() *showtime.ShowTime {
	return &showtime.ShowTime{
		ID: r.ID, MovieID: r.MovieID, MovieTitle: r.MovieTitle,
		Date: r.ShowDate, StartTime: r.StartAt, EndTime: r.EndAt,
	}
}

const selectShowTimes = `
	SELECT st.id, st.movie_id, m.title AS movie_title, st.show_date, st.start_at, st.end_at
	FROM show_times st
	JOIN movies m ON m.id = st.movie_id
`

// ShowTimeDirectory は上映回参照のPostgreSQL実装。上映回と映画のテーブルは読み取りのみ
type ShowTimeDirectory struct{ db *sqlx.DB }

func NewShowTimeDirectory(db *sqlx.DB) *ShowTimeDirectory { return &ShowTimeDirectory{db: db} }

func (d *ShowTimeDirectory) GetByID(ctx context.Context, id int64) (*showtime.ShowTime, error) {
	var row showTimeRow
	if err := d.db.GetContext(ctx, &row, selectShowTimes+` WHERE st.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, showtime.ErrShowTimeNotFound
		}
		return nil, booking.PersistenceFailure("上映回取得", err)
	}
	return row.toEntity(), nil
}

func (d *ShowTimeDirectory) ListByIDs(ctx context.Context, ids []int64) (map[int64]*showtime.ShowTime, error) {
	result := make(map[int64]*showtime.ShowTime, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []showTimeRow
	if err := d.db.SelectContext(ctx, &rows, selectShowTimes+` WHERE st.id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, booking.PersistenceFailure("上映回一括取得", err)
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].toEntity()
	}
	return result, nil
}

var _ showtime.Directory = (*ShowTimeDirectory)(nil)
