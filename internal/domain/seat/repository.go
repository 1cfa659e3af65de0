package seat

import "context"

// Catalog は座席マスタを参照するインターフェース
type Catalog interface {
	// ListSeats は劇場の全座席をID順で取得する
	ListSeats(ctx context.Context) ([]*Seat, error)
}
