package showtime

import "errors"

// ShowTime ドメインのエラー定義
var (
	ErrShowTimeNotFound = errors.New("上映回が見つかりません")
)
