package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
)

// BookingLedger はプロセス内で完結する予約台帳。
// 衝突確認と挿入を同じ排他ロックの中で行うため、PostgreSQL 実装と同じ保証を持つ
type BookingLedger struct {
	mu       sync.RWMutex
	now      func() time.Time
	nextID   int64
	bookings []*booking.Booking
	// claimed は上映回ID → 座席ID → 予約ID
	claimed map[int64]map[string]int64
}

// NewBookingLedger は空の台帳を作成する
func NewBookingLedger() *BookingLedger {
	return NewBookingLedgerWithClock(time.Now)
}

// NewBookingLedgerWithClock は作成日時の時計を差し替えた台帳を作成する
func NewBookingLedgerWithClock(now func() time.Time) *BookingLedger {
	return &BookingLedger{
		now:     now,
		claimed: make(map[int64]map[string]int64),
	}
}

func (l *BookingLedger) Create(ctx context.Context, b *booking.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// 呼び出し側が待つのをやめていれば何も書かない
	if err := ctx.Err(); err != nil {
		return booking.PersistenceFailure("予約作成", err)
	}

	seats := l.claimed[b.ShowTimeID]
	conflicts := lo.Filter(b.SeatIDs, func(id string, _ int) bool {
		_, taken := seats[id]
		return taken
	})
	if len(conflicts) > 0 {
		return booking.NewSeatUnavailableError(b.ShowTimeID, conflicts)
	}

	if seats == nil {
		seats = make(map[string]int64, len(b.SeatIDs))
		l.claimed[b.ShowTimeID] = seats
	}
	l.nextID++
	b.ID = l.nextID
	b.CreatedAt = l.now()
	for _, id := range b.SeatIDs {
		seats[id] = b.ID
	}
	l.bookings = append(l.bookings, clone(b))
	return nil
}

func (l *BookingLedger) ListByUserID(ctx context.Context, userID int64) ([]*booking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*booking.Booking, 0)
	for _, b := range l.bookings {
		if b.UserID == userID {
			result = append(result, clone(b))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (l *BookingLedger) ListByShowTimeID(ctx context.Context, showTimeID int64) ([]*booking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*booking.Booking, 0)
	for _, b := range l.bookings {
		if b.ShowTimeID == showTimeID {
			result = append(result, clone(b))
		}
	}
	return result, nil
}

func clone(b *booking.Booking) *booking.Booking {
	c := *b
	c.SeatIDs = append([]string(nil), b.SeatIDs...)
	return &c
}

var _ booking.Ledger = (*BookingLedger)(nil)
