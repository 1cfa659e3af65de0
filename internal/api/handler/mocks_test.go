package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
)

// MockBookingService はBookingServiceInterfaceとSeatServiceInterfaceのモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Summary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Summary), args.Error(1)
}

func (m *MockBookingService) ViewBookingHistory(ctx context.Context, userID int64) ([]*booking.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Summary), args.Error(1)
}

func (m *MockBookingService) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockBookingService) ViewSeatsStatus(ctx context.Context, showTimeID int64) ([]seat.SeatStatus, error) {
	args := m.Called(ctx, showTimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seat.SeatStatus), args.Error(1)
}
