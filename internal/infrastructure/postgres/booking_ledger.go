package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
)

// 制約名はマイグレーション 000001 で定義したもの
const (
	constraintBookingShowTime = "bookings_show_time_id_fkey"
	constraintBookedSeatSeat  = "booked_seats_seat_id_fkey"
)

type bookingRow struct {
	ID         int64          `db:"id"`
	UserID     int64          `db:"user_id"`
	ShowTimeID int64          `db:"show_time_id"`
	CreatedAt  time.Time      `db:"created_at"`
	SeatIDs    pq.StringArray `db:"seat_ids"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID: r.ID, UserID: r.UserID, ShowTimeID: r.ShowTimeID,
		SeatIDs: []string(r.SeatIDs), CreatedAt: r.CreatedAt,
	}
}

// BookingLedger は予約台帳のPostgreSQL実装。
// booked_seats の主キー (show_time_id, seat_id) が同一上映回での座席の二重確保を防ぐ
type BookingLedger struct {
	db *sqlx.DB
}

// NewBookingLedger はBookingLedgerを作成する
func NewBookingLedger(db *sqlx.DB) *BookingLedger {
	return &BookingLedger{db: db}
}

// Create は予約行と座席行を1つのトランザクションで挿入する。
// 座席の挿入は ON CONFLICT DO NOTHING で行い、挿入されなかった座席が衝突座席となる。
// 1席でも衝突した場合はロールバックし *booking.SeatUnavailableError を返す
func (l *BookingLedger) Create(ctx context.Context, b *booking.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}

	var (
		id        int64
		createdAt time.Time
	)
	err := withTx(ctx, l.db, readCommitted, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx,
			`INSERT INTO bookings (user_id, show_time_id, created_at) VALUES ($1, $2, NOW()) RETURNING id, created_at`,
			b.UserID, b.ShowTimeID,
		).Scan(&id, &createdAt); err != nil {
			return err
		}

		// 座席IDの昇順で挿入し、重なる座席集合を同時に確保する呼び出し同士のデッドロックを避ける
		var claimed []string
		if err := tx.SelectContext(ctx, &claimed, `
			INSERT INTO booked_seats (booking_id, show_time_id, seat_id)
			SELECT $1, $2, s.seat_id
			FROM unnest($3::text[]) WITH ORDINALITY AS s(seat_id, ord)
			ORDER BY s.ord
			ON CONFLICT (show_time_id, seat_id) DO NOTHING
			RETURNING seat_id`,
			id, b.ShowTimeID, pq.Array(b.SeatIDs),
		); err != nil {
			return err
		}

		if conflicts := lo.Without(b.SeatIDs, claimed...); len(conflicts) > 0 {
			return booking.NewSeatUnavailableError(b.ShowTimeID, conflicts)
		}
		return nil
	})
	if err != nil {
		return l.classify(ctx, "予約作成", b, err)
	}

	b.ID = id
	b.CreatedAt = createdAt
	return nil
}

// classify はドライバーのエラーを予約ドメインのエラー分類に変換する
func (l *BookingLedger) classify(ctx context.Context, op string, b *booking.Booking, err error) error {
	if errors.Is(err, booking.ErrSeatUnavailable) || errors.Is(err, booking.ErrInvalidRequest) {
		return err
	}

	if pgErr, ok := pqError(err); ok {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			switch pgErr.Constraint {
			case constraintBookingShowTime:
				return booking.ErrUnknownShowTime
			case constraintBookedSeatSeat:
				return booking.ErrUnknownSeat
			}
		case codeUniqueViolation:
			// ON CONFLICT で吸収されない経路。確定済みの衝突座席を読み直して返す
			return l.conflictsAfterViolation(ctx, b, err)
		case codeSerializationFailure, codeDeadlockDetected:
			return booking.PersistenceFailure(op, err)
		}
	}

	return booking.PersistenceFailure(op, err)
}

func (l *BookingLedger) conflictsAfterViolation(ctx context.Context, b *booking.Booking, cause error) error {
	var taken []string
	if err := l.db.SelectContext(ctx, &taken,
		`SELECT seat_id FROM booked_seats WHERE show_time_id = $1 AND seat_id = ANY($2) ORDER BY seat_id`,
		b.ShowTimeID, pq.Array(b.SeatIDs),
	); err != nil || len(taken) == 0 {
		return booking.PersistenceFailure("衝突座席の確認", cause)
	}
	return booking.NewSeatUnavailableError(b.ShowTimeID, taken)
}

const selectBookings = `
	SELECT b.id, b.user_id, b.show_time_id, b.created_at,
	       array_agg(bs.seat_id ORDER BY bs.seat_id) AS seat_ids
	FROM bookings b
	JOIN booked_seats bs ON bs.booking_id = b.id
`

// ListByUserID はユーザーの全予約を作成日時の降順で取得する
func (l *BookingLedger) ListByUserID(ctx context.Context, userID int64) ([]*booking.Booking, error) {
	var rows []bookingRow
	if err := l.db.SelectContext(ctx, &rows, selectBookings+`
		WHERE b.user_id = $1
		GROUP BY b.id
		ORDER BY b.created_at DESC, b.id DESC`, userID); err != nil {
		return nil, booking.PersistenceFailure("予約履歴取得", err)
	}
	return toBookings(rows), nil
}

// ListByShowTimeID は上映回の全予約を取得する。単一のSELECTなので確定済みの予約だけが一貫して見える
func (l *BookingLedger) ListByShowTimeID(ctx context.Context, showTimeID int64) ([]*booking.Booking, error) {
	var rows []bookingRow
	if err := l.db.SelectContext(ctx, &rows, selectBookings+`
		WHERE b.show_time_id = $1
		GROUP BY b.id
		ORDER BY b.id`, showTimeID); err != nil {
		return nil, booking.PersistenceFailure("上映回の予約取得", err)
	}
	return toBookings(rows), nil
}

func toBookings(rows []bookingRow) []*booking.Booking {
	return lo.Map(rows, func(row bookingRow, _ int) *booking.Booking {
		return row.toEntity()
	})
}

var _ booking.Ledger = (*BookingLedger)(nil)
