package booking

import "context"

// Ledger は予約台帳のインターフェース。予約に関する更新はすべてここを通る
type Ledger interface {
	// Create は座席の衝突確認と予約・座席の挿入を1つのトランザクションで行う。
	// 成功時は ID と CreatedAt が設定される。衝突時は *SeatUnavailableError を返し、何も保存しない
	Create(ctx context.Context, b *Booking) error

	// ListByUserID はユーザーの全予約を作成日時の降順で取得する
	ListByUserID(ctx context.Context, userID int64) ([]*Booking, error)

	// ListByShowTimeID は上映回の全予約を取得する
	ListByShowTimeID(ctx context.Context, showTimeID int64) ([]*Booking, error)
}
