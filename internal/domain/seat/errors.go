package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound    = errors.New("座席が見つかりません")
	ErrSeatIDRequired  = errors.New("座席IDは必須です")
	ErrInvalidCategory = errors.New("座席種別が不正です")
	ErrInvalidPrice    = errors.New("価格は0以上である必要があります")
)
