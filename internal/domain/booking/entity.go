package booking

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
)

// Booking は予約台帳の1エントリ。1ユーザー・1上映回・空でない座席集合を束ねる
// 作成後は変更も削除もされない
type Booking struct {
	ID         int64
	UserID     int64
	ShowTimeID int64
	SeatIDs    []string
	CreatedAt  time.Time
}

// NewBooking は新しい予約を作成する。座席IDはソート済みのコピーとして保持する
func NewBooking(userID, showTimeID int64, seatIDs []string) *Booking {
	ids := make([]string, len(seatIDs))
	copy(ids, seatIDs)
	sort.Strings(ids)
	return &Booking{
		UserID:     userID,
		ShowTimeID: showTimeID,
		SeatIDs:    ids,
	}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.UserID <= 0 {
		return ErrUserIDRequired
	}
	if b.ShowTimeID <= 0 {
		return ErrShowTimeIDRequired
	}
	if len(b.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	for _, id := range b.SeatIDs {
		if id == "" {
			return ErrSeatIDsRequired
		}
	}
	if len(lo.Uniq(b.SeatIDs)) != len(b.SeatIDs) {
		return ErrDuplicateSeatID
	}
	return nil
}

// Summary は予約履歴の表示用モデル
type Summary struct {
	BookingID  int64
	UserID     int64
	MovieTitle string
	ShowTime   showtime.ShowTime
	Seats      []seat.Seat
	TotalPrice decimal.Decimal
	CreatedAt  time.Time

	// MissingSeatIDs は座席マスタで解決できなかった座席。空でなければ Seats と TotalPrice は不完全
	MissingSeatIDs []string
}

// NewSummary は予約・上映回・座席情報から Summary を組み立てる
func NewSummary(b *Booking, st *showtime.ShowTime, seats []*seat.Seat) *Summary {
	sorted := make([]*seat.Seat, len(seats))
	copy(sorted, seats)
	seat.SortByID(sorted)

	return &Summary{
		BookingID:  b.ID,
		UserID:     b.UserID,
		MovieTitle: st.MovieTitle,
		ShowTime:   *st,
		Seats: lo.Map(sorted, func(s *seat.Seat, _ int) seat.Seat {
			return *s
		}),
		TotalPrice: seat.TotalPrice(sorted),
		CreatedAt:  b.CreatedAt,
	}
}

// SeatIDs は Summary に含まれる座席IDを返す
func (s *Summary) SeatIDs() []string {
	return lo.Map(s.Seats, func(se seat.Seat, _ int) string {
		return se.ID
	})
}
