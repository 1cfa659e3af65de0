package handler

import (
	"context"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
)

// BookingServiceInterface は予約作成と予約履歴のインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Summary, error)
	ViewBookingHistory(ctx context.Context, userID int64) ([]*booking.Summary, error)
}

// SeatServiceInterface は座席マスタと空席状況のインターフェース
type SeatServiceInterface interface {
	ListSeats(ctx context.Context) ([]*seat.Seat, error)
	ViewSeatsStatus(ctx context.Context, showTimeID int64) ([]seat.SeatStatus, error)
}

var (
	_ BookingServiceInterface = (*application.BookingService)(nil)
	_ SeatServiceInterface    = (*application.BookingService)(nil)
)
