package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
)

// === Mock implementations ===

// MockLedger implements booking.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockLedger) ListByUserID(ctx context.Context, userID int64) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockLedger) ListByShowTimeID(ctx context.Context, showTimeID int64) ([]*booking.Booking, error) {
	args := m.Called(ctx, showTimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

// MockCatalog implements seat.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

// MockDirectory implements showtime.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetByID(ctx context.Context, id int64) (*showtime.ShowTime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.ShowTime), args.Error(1)
}

func (m *MockDirectory) ListByIDs(ctx context.Context, ids []int64) (map[int64]*showtime.ShowTime, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*showtime.ShowTime), args.Error(1)
}

// MockCatalogCache implements CatalogCache
type MockCatalogCache struct {
	mock.Mock
}

func (m *MockCatalogCache) GetCatalog(ctx context.Context) ([]*seat.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockCatalogCache) SetCatalog(ctx context.Context, seats []*seat.Seat, ttl time.Duration) error {
	args := m.Called(ctx, seats, ttl)
	return args.Error(0)
}

func (m *MockCatalogCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ booking.Ledger     = (*MockLedger)(nil)
	_ seat.Catalog       = (*MockCatalog)(nil)
	_ showtime.Directory = (*MockDirectory)(nil)
	_ CatalogCache       = (*MockCatalogCache)(nil)
)
