package application

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/logger"
)

// BookingHistoryView は予約台帳に座席情報と上映回情報を結合した読み取り専用ビュー
type BookingHistoryView struct {
	ledger    booking.Ledger
	catalog   seat.Catalog
	directory showtime.Directory
}

// NewBookingHistoryView は BookingHistoryView を作成する
func NewBookingHistoryView(ledger booking.Ledger, catalog seat.Catalog, directory showtime.Directory) *BookingHistoryView {
	return &BookingHistoryView{ledger: ledger, catalog: catalog, directory: directory}
}

// ForUser はユーザーの全予約について1件につき1つの Summary を、作成日時の新しい順に返す。
// 座席マスタにない座席は Summary.MissingSeatIDs に入り、TotalPrice には含まれない
func (v *BookingHistoryView) ForUser(ctx context.Context, userID int64) ([]*booking.Summary, error) {
	if userID <= 0 {
		return nil, booking.ErrUserIDRequired
	}

	var (
		bookings []*booking.Booking
		seats    []*seat.Seat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = v.ledger.ListByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		seats, err = v.catalog.ListSeats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []*booking.Summary{}, nil
	}

	showTimeIDs := lo.Uniq(lo.Map(bookings, func(b *booking.Booking, _ int) int64 {
		return b.ShowTimeID
	}))
	showTimes, err := v.directory.ListByIDs(ctx, showTimeIDs)
	if err != nil {
		return nil, err
	}

	seatByID := lo.KeyBy(seats, func(s *seat.Seat) string { return s.ID })
	summaries := make([]*booking.Summary, 0, len(bookings))
	for _, b := range bookings {
		st, ok := showTimes[b.ShowTimeID]
		if !ok {
			// 上映回が外部カタログから消えていても予約自体は表示する
			logger.Warn("予約の上映回が見つかりません",
				zap.Int64("booking_id", b.ID), zap.Int64("show_time_id", b.ShowTimeID))
			st = &showtime.ShowTime{ID: b.ShowTimeID}
		}

		booked := make([]*seat.Seat, 0, len(b.SeatIDs))
		var missing []string
		for _, id := range b.SeatIDs {
			s, ok := seatByID[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			booked = append(booked, s)
		}
		summary := booking.NewSummary(b, st, booked)
		if len(missing) > 0 {
			logger.Warn("予約の座席が座席マスタにありません",
				zap.Int64("booking_id", b.ID), zap.Strings("seat_ids", missing))
			summary.MissingSeatIDs = missing
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
