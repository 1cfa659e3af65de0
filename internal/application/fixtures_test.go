package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/infrastructure/memory"
)

// testSeats は A1-A3, B1-B3, C1-C2 の座席マスタ。C列はカップル席
func testSeats() []*seat.Seat {
	fifty := decimal.RequireFromString("50.0")
	return []*seat.Seat{
		seat.NewSeat("A1", seat.CategorySingle, fifty),
		seat.NewSeat("A2", seat.CategorySingle, fifty),
		seat.NewSeat("A3", seat.CategorySingle, fifty),
		seat.NewSeat("B1", seat.CategorySingle, fifty),
		seat.NewSeat("B2", seat.CategorySingle, fifty),
		seat.NewSeat("B3", seat.CategorySingle, fifty),
		seat.NewSeat("C1", seat.CategoryCouple, decimal.RequireFromString("90.0")),
		seat.NewSeat("C2", seat.CategoryCouple, decimal.RequireFromString("90.0")),
	}
}

func testShowTime(id int64, title string) *showtime.ShowTime {
	start := time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC)
	return &showtime.ShowTime{
		ID:         id,
		MovieID:    id * 10,
		MovieTitle: title,
		Date:       time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
	}
}

type testEnv struct {
	ledger    *memory.BookingLedger
	catalog   *memory.SeatCatalog
	directory *memory.ShowTimeDirectory
	service   *BookingService
}

// newTestEnv はインメモリ実装で組み立てた BookingService を返す
func newTestEnv() *testEnv {
	ledger := memory.NewBookingLedger()
	catalog := memory.NewSeatCatalog(testSeats()...)
	directory := memory.NewShowTimeDirectory(
		testShowTime(1, "Movie One"),
		testShowTime(2, "Movie Two"),
	)
	resolver := NewSeatAvailabilityResolver(catalog, ledger)
	history := NewBookingHistoryView(ledger, catalog, directory)
	service := NewBookingService(ledger, catalog, directory, resolver, history, nil, DefaultLockOptions())
	return &testEnv{ledger: ledger, catalog: catalog, directory: directory, service: service}
}

func statusByID(statuses []seat.SeatStatus) map[string]seat.Status {
	result := make(map[string]seat.Status, len(statuses))
	for _, s := range statuses {
		result[s.Seat.ID] = s.Status
	}
	return result
}
