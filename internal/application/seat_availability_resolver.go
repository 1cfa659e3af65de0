package application

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
)

// SeatAvailabilityResolver は予約台帳から上映回ごとの座席状態を導出する。
// 状態はどこにも保存せず、読み出しのたびに計算する
type SeatAvailabilityResolver struct {
	catalog seat.Catalog
	ledger  booking.Ledger
}

func NewSeatAvailabilityResolver(catalog seat.Catalog, ledger booking.Ledger) *SeatAvailabilityResolver {
	return &SeatAvailabilityResolver{catalog: catalog, ledger: ledger}
}

// ViewSeatsStatus は座席マスタの全座席を1回ずつ、ID順に状態付きで返す
func (r *SeatAvailabilityResolver) ViewSeatsStatus(ctx context.Context, showTimeID int64) ([]seat.SeatStatus, error) {
	var (
		seats  []*seat.Seat
		booked map[string]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seats, err = r.catalog.ListSeats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		booked, err = r.BookedSeatIDs(gctx, showTimeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seat.SortByID(seats)
	return lo.Map(seats, func(s *seat.Seat, _ int) seat.SeatStatus {
		status := seat.StatusAvailable
		if _, ok := booked[s.ID]; ok {
			status = seat.StatusBooked
		}
		return seat.SeatStatus{Seat: *s, Status: status}
	}), nil
}

// BookedSeatIDs は上映回の全予約が確保している座席IDの和集合を返す。
// 台帳の1回の読み出しから計算するので、確定済みの予約だけが反映される
func (r *SeatAvailabilityResolver) BookedSeatIDs(ctx context.Context, showTimeID int64) (map[string]struct{}, error) {
	bookings, err := r.ledger.ListByShowTimeID(ctx, showTimeID)
	if err != nil {
		return nil, err
	}
	booked := make(map[string]struct{})
	for _, b := range bookings {
		for _, id := range b.SeatIDs {
			booked[id] = struct{}{}
		}
	}
	return booked, nil
}

// AlreadyBooked は指定座席のうち既に予約済みのものを返す
func (r *SeatAvailabilityResolver) AlreadyBooked(ctx context.Context, showTimeID int64, seatIDs []string) ([]string, error) {
	booked, err := r.BookedSeatIDs(ctx, showTimeID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(seatIDs, func(id string, _ int) bool {
		_, ok := booked[id]
		return ok
	}), nil
}
