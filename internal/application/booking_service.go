package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
	redislock "github.com/sanosuguru/go-cinema-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/metrics"
)

// LockOptions は上映回ロックの取得設定
type LockOptions struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

// DefaultLockOptions は config の既定値と同じロック設定
func DefaultLockOptions() LockOptions {
	return LockOptions{TTL: 5 * time.Second, Retries: 3, RetryDelay: 50 * time.Millisecond}
}

// BookingService は予約の作成・空席照会・予約履歴の窓口。
// 座席の二重確保を防ぐのは予約台帳の Create であり、ここでの事前確認とロックは早期の拒否と競合の緩和にすぎない
type BookingService struct {
	ledger      booking.Ledger
	catalog     seat.Catalog
	directory   showtime.Directory
	resolver    *SeatAvailabilityResolver
	history     *BookingHistoryView
	lockManager *redislock.LockManager
	lockOpts    LockOptions
}

// NewBookingService は BookingService を作成する。lm は nil でもよい
func NewBookingService(
	ledger booking.Ledger,
	catalog seat.Catalog,
	directory showtime.Directory,
	resolver *SeatAvailabilityResolver,
	history *BookingHistoryView,
	lm *redislock.LockManager,
	lockOpts LockOptions,
) *BookingService {
	return &BookingService{
		ledger:      ledger,
		catalog:     catalog,
		directory:   directory,
		resolver:    resolver,
		history:     history,
		lockManager: lm,
		lockOpts:    lockOpts,
	}
}

// CreateBookingInput は予約作成の入力。CanBook は認可側が判定した予約可否
type CreateBookingInput struct {
	UserID     int64
	ShowTimeID int64
	SeatIDs    []string
	CanBook    bool
}

// CreateBooking は座席を予約し、合計金額を含む Summary を返す
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Summary, error) {
	if !input.CanBook {
		metrics.Get().RecordBooking(metrics.BookingForbidden, 0)
		return nil, booking.ErrBookingNotPermitted
	}

	b := booking.NewBooking(input.UserID, input.ShowTimeID, input.SeatIDs)
	if err := b.Validate(); err != nil {
		metrics.Get().RecordBooking(metrics.BookingInvalid, 0)
		return nil, err
	}

	st, err := s.lookupShowTime(ctx, b.ShowTimeID)
	if err != nil {
		s.record(err)
		return nil, err
	}

	seats, err := s.resolveSeats(ctx, b.SeatIDs)
	if err != nil {
		s.record(err)
		return nil, err
	}

	// 同じ上映回への予約を直列化して台帳での衝突を減らす。取得できなくても台帳の制約で正しさは保たれる
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, redislock.ShowTimeLockKey(b.ShowTimeID),
			s.lockOpts.TTL, s.lockOpts.Retries, s.lockOpts.RetryDelay)
		if err != nil {
			logger.Warn("上映回ロックを取得できませんでした。ロックなしで続行します",
				zap.Int64("show_time_id", b.ShowTimeID), zap.Error(err))
		} else {
			defer func() {
				if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("ロック解放に失敗", zap.String("key", lock.Key()), zap.Error(err))
				}
			}()
		}
	}

	// 事前確認
	taken, err := s.resolver.AlreadyBooked(ctx, b.ShowTimeID, b.SeatIDs)
	if err != nil {
		s.record(err)
		return nil, err
	}
	if len(taken) > 0 {
		err := booking.NewSeatUnavailableError(b.ShowTimeID, taken)
		s.record(err)
		return nil, err
	}

	if err := s.ledger.Create(ctx, b); err != nil {
		s.record(err)
		return nil, err
	}

	summary := booking.NewSummary(b, st, seats)
	metrics.Get().RecordBooking(metrics.BookingSuccess, len(b.SeatIDs))
	logger.Info("予約を作成しました",
		zap.Int64("booking_id", b.ID),
		zap.Int64("user_id", b.UserID),
		zap.Int64("show_time_id", b.ShowTimeID),
		zap.Strings("seat_ids", b.SeatIDs),
		zap.String("total_price", summary.TotalPrice.StringFixed(2)),
	)
	return summary, nil
}

// ViewSeatsStatus は上映回の全座席の状態を返す
func (s *BookingService) ViewSeatsStatus(ctx context.Context, showTimeID int64) ([]seat.SeatStatus, error) {
	if showTimeID <= 0 {
		return nil, booking.ErrShowTimeIDRequired
	}
	if _, err := s.lookupShowTime(ctx, showTimeID); err != nil {
		return nil, err
	}
	return s.resolver.ViewSeatsStatus(ctx, showTimeID)
}

// ViewBookingHistory はユーザーの予約履歴を返す
func (s *BookingService) ViewBookingHistory(ctx context.Context, userID int64) ([]*booking.Summary, error) {
	return s.history.ForUser(ctx, userID)
}

// ListSeats は座席マスタを返す
func (s *BookingService) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	return s.catalog.ListSeats(ctx)
}

func (s *BookingService) lookupShowTime(ctx context.Context, id int64) (*showtime.ShowTime, error) {
	st, err := s.directory.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, showtime.ErrShowTimeNotFound) {
			return nil, fmt.Errorf("%w: %d", booking.ErrUnknownShowTime, id)
		}
		return nil, err
	}
	return st, nil
}

// resolveSeats は座席IDを座席マスタと照合する。1つでも存在しなければ ErrUnknownSeat
func (s *BookingService) resolveSeats(ctx context.Context, seatIDs []string) ([]*seat.Seat, error) {
	catalog, err := s.catalog.ListSeats(ctx)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(catalog, func(se *seat.Seat) string { return se.ID })

	seats := make([]*seat.Seat, 0, len(seatIDs))
	var unknown []string
	for _, id := range seatIDs {
		se, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		seats = append(seats, se)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v", booking.ErrUnknownSeat, unknown)
	}
	return seats, nil
}

// record は失敗した予約をメトリクスとログに残す
func (s *BookingService) record(err error) {
	switch {
	case errors.Is(err, booking.ErrSeatUnavailable):
		metrics.Get().RecordBooking(metrics.BookingConflict, 0)
		seats, _ := booking.ConflictingSeats(err)
		logger.Warn("座席が競合しました", zap.Strings("conflicting_seats", seats), zap.Error(err))
	case errors.Is(err, booking.ErrInvalidRequest):
		metrics.Get().RecordBooking(metrics.BookingInvalid, 0)
	default:
		metrics.Get().RecordBooking(metrics.BookingError, 0)
		logger.Error("予約の保存に失敗しました", zap.Bool("retryable", booking.IsRetryable(err)), zap.Error(err))
	}
}
