package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// エラー分類
//   - ErrInvalidRequest: 呼び出し側の入力誤り。自動リトライしない
//   - ErrSeatUnavailable: 確定時点で他の予約と座席が衝突した。空席を取り直して再試行できる
//   - ErrPersistenceFailure: ストレージ到達不能・トランザクション中断。リトライ可能
var (
	ErrInvalidRequest      = errors.New("無効な予約リクエストです")
	ErrSeatUnavailable     = errors.New("座席は既に予約されています")
	ErrPersistenceFailure  = errors.New("予約データの永続化に失敗しました")
	ErrBookingNotPermitted = errors.New("このユーザーには予約権限がありません")
)

// ErrInvalidRequest の詳細
var (
	ErrUserIDRequired     = fmt.Errorf("%w: ユーザーIDは必須です", ErrInvalidRequest)
	ErrShowTimeIDRequired = fmt.Errorf("%w: 上映回IDは必須です", ErrInvalidRequest)
	ErrSeatIDsRequired    = fmt.Errorf("%w: 座席IDは必須です", ErrInvalidRequest)
	ErrDuplicateSeatID    = fmt.Errorf("%w: 座席IDが重複しています", ErrInvalidRequest)
	ErrUnknownSeat        = fmt.Errorf("%w: 存在しない座席IDです", ErrInvalidRequest)
	ErrUnknownShowTime    = fmt.Errorf("%w: 存在しない上映回です", ErrInvalidRequest)
)

// SeatUnavailableError は衝突した座席を保持する。errors.Is(err, ErrSeatUnavailable) が真になる
type SeatUnavailableError struct {
	ShowTimeID       int64
	ConflictingSeats []string
}

// NewSeatUnavailableError は衝突座席をソートして保持するエラーを作成する
func NewSeatUnavailableError(showTimeID int64, seatIDs []string) *SeatUnavailableError {
	ids := make([]string, len(seatIDs))
	copy(ids, seatIDs)
	sort.Strings(ids)
	return &SeatUnavailableError{ShowTimeID: showTimeID, ConflictingSeats: ids}
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("%s: 上映回 %d, 座席 [%s]", ErrSeatUnavailable.Error(), e.ShowTimeID, strings.Join(e.ConflictingSeats, ", "))
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

// ConflictingSeats はエラーチェーンから衝突座席を取り出す
func ConflictingSeats(err error) ([]string, bool) {
	var target *SeatUnavailableError
	if errors.As(err, &target) {
		return target.ConflictingSeats, true
	}
	return nil, false
}

// PersistenceFailure はインフラ起因のエラーを ErrPersistenceFailure でラップする
func PersistenceFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, op, err)
}

// IsRetryable は呼び出し側が同じ入力で再試行してよいエラーかを返す
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistenceFailure)
}
