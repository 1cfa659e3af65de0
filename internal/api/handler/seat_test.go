package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
)

func TestSeatHandler_List(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockBookingService)
	svc.On("ListSeats", mock.Anything).Return([]*seat.Seat{
		seat.NewSeat("A1", seat.CategorySingle, decimal.RequireFromString("12.5")),
		seat.NewSeat("C1", seat.CategoryCouple, decimal.RequireFromString("30")),
	}, nil)
	e.GET("/api/v1/seats", NewSeatHandler(svc).List)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/seats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []SeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, SeatResponse{ID: "A1", Category: "SINGLE", Price: "12.50"}, resp[0])
	assert.Equal(t, "COUPLE", resp[1].Category)
}

func TestSeatHandler_Status(t *testing.T) {
	t.Run("全座席の状態を返す", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockBookingService)
		price := decimal.RequireFromString("50")
		svc.On("ViewSeatsStatus", mock.Anything, int64(2)).Return([]seat.SeatStatus{
			{Seat: seat.Seat{ID: "A1", Category: seat.CategorySingle, Price: price}, Status: seat.StatusBooked},
			{Seat: seat.Seat{ID: "A2", Category: seat.CategorySingle, Price: price}, Status: seat.StatusAvailable},
		}, nil)
		e.GET("/api/v1/showtimes/:show_time_id/seats", NewSeatHandler(svc).Status)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/showtimes/2/seats", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []SeatStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "BOOKED", resp[0].Status)
		assert.Equal(t, "A2", resp[1].ID)
		assert.Equal(t, "AVAILABLE", resp[1].Status)
	})

	t.Run("存在しない上映回は400", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockBookingService)
		svc.On("ViewSeatsStatus", mock.Anything, int64(99)).Return(nil, booking.ErrUnknownShowTime)
		e.GET("/api/v1/showtimes/:show_time_id/seats", NewSeatHandler(svc).Status)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/showtimes/99/seats", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("上映回IDが0なら400", func(t *testing.T) {
		e := NewTestEcho()
		svc := new(MockBookingService)
		e.GET("/api/v1/showtimes/:show_time_id/seats", NewSeatHandler(svc).Status)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/showtimes/0/seats", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ViewSeatsStatus", mock.Anything, mock.Anything)
	})
}
