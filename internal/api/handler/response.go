package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
)

// SeatResponse は座席マスタの1座席。価格は小数点以下2桁の文字列
type SeatResponse struct {
	ID       string `json:"id" example:"A1"`
	Category string `json:"category" example:"SINGLE"`
	Price    string `json:"price" example:"50.00"`
}

// SeatStatusResponse は上映回における座席の状態
type SeatStatusResponse struct {
	SeatResponse
	Status string `json:"status" example:"AVAILABLE"`
}

// ShowTimeResponse は予約に紐づく上映回
type ShowTimeResponse struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movie_id"`
	Date      string    `json:"date" example:"2026-11-01"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// BookingSummaryResponse は予約確認・予約履歴の1件
type BookingSummaryResponse struct {
	BookingID  int64            `json:"booking_id"`
	UserID     int64            `json:"user_id"`
	MovieTitle string           `json:"movie_title"`
	ShowTime   ShowTimeResponse `json:"show_time"`
	Seats      []SeatResponse   `json:"seats"`
	TotalPrice string           `json:"total_price" example:"100.00"`
	CreatedAt  time.Time        `json:"created_at"`

	// 座席マスタにない座席。あれば total_price はその分を含まない
	MissingSeatIDs []string `json:"missing_seat_ids,omitempty"`
}

func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toSeatResponse(s seat.Seat) SeatResponse {
	return SeatResponse{ID: s.ID, Category: string(s.Category), Price: formatPrice(s.Price)}
}

func toSeatStatusResponse(s seat.SeatStatus) SeatStatusResponse {
	return SeatStatusResponse{SeatResponse: toSeatResponse(s.Seat), Status: string(s.Status)}
}

func toShowTimeResponse(st showtime.ShowTime) ShowTimeResponse {
	date := ""
	if !st.Date.IsZero() {
		date = st.Date.Format("2006-01-02")
	}
	return ShowTimeResponse{ID: st.ID, MovieID: st.MovieID, Date: date, StartTime: st.StartTime, EndTime: st.EndTime}
}

func toBookingSummaryResponse(s *booking.Summary) BookingSummaryResponse {
	seats := make([]SeatResponse, len(s.Seats))
	for i, se := range s.Seats {
		seats[i] = toSeatResponse(se)
	}
	return BookingSummaryResponse{
		BookingID:      s.BookingID,
		UserID:         s.UserID,
		MovieTitle:     s.MovieTitle,
		ShowTime:       toShowTimeResponse(s.ShowTime),
		Seats:          seats,
		TotalPrice:     formatPrice(s.TotalPrice),
		CreatedAt:      s.CreatedAt,
		MissingSeatIDs: s.MissingSeatIDs,
	}
}
