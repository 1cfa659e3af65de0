package seat

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Category は座席の種別を表す
type Category string

const (
	CategorySingle Category = "SINGLE"
	CategoryCouple Category = "COUPLE"
)

// IsValid は既知の座席種別かを返す
func (c Category) IsValid() bool {
	return c == CategorySingle || c == CategoryCouple
}

// Status は上映回ごとの座席の状態を表す（保存せず、予約台帳から導出する）
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
)

// Seat は劇場の座席マスタを表す。上映回に依存しない参照データ
type Seat struct {
	ID       string
	Category Category
	Price    decimal.Decimal
}

// NewSeat は新しい座席を作成する
func NewSeat(id string, category Category, price decimal.Decimal) *Seat {
	return &Seat{
		ID:       id,
		Category: category,
		Price:    price,
	}
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.ID == "" {
		return ErrSeatIDRequired
	}
	if !s.Category.IsValid() {
		return ErrInvalidCategory
	}
	if s.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// SeatStatus はある上映回における座席の状態
type SeatStatus struct {
	Seat   Seat
	Status Status
}

// IsAvailable は座席が予約可能かを返す
func (s SeatStatus) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// SortByID は座席をID順に並べ替える
func SortByID(seats []*Seat) {
	sort.SliceStable(seats, func(i, j int) bool {
		return seats[i].ID < seats[j].ID
	})
}

// TotalPrice は座席価格の合計を返す
func TotalPrice(seats []*Seat) decimal.Decimal {
	total := decimal.Zero
	for _, s := range seats {
		total = total.Add(s.Price)
	}
	return total
}
