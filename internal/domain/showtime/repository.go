package showtime

import "context"

// Directory は上映回情報を参照するインターフェース
type Directory interface {
	// GetByID はIDから上映回を取得する
	GetByID(ctx context.Context, id int64) (*ShowTime, error)

	// ListByIDs は複数の上映回をまとめて取得する。存在しないIDは結果に含まれない
	ListByIDs(ctx context.Context, ids []int64) (map[int64]*ShowTime, error)
}
