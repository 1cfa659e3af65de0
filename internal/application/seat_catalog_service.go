package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	redisinfra "github.com/sanosuguru/go-cinema-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/metrics"
)

const defaultCatalogCacheTTL = 10 * time.Minute

// CatalogCache は座席マスタのキャッシュ。redisinfra.SeatCache が実装する
type CatalogCache interface {
	GetCatalog(ctx context.Context) ([]*seat.Seat, error)
	SetCatalog(ctx context.Context, seats []*seat.Seat, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// SeatCatalogService は座席マスタの読み出しにキャッシュを挟む。
// seat.Catalog を満たすので、リゾルバや予約サービスからはそのまま座席マスタとして使える
type SeatCatalogService struct {
	catalog seat.Catalog
	cache   CatalogCache
	ttl     time.Duration
}

// NewSeatCatalogService は SeatCatalogService を作成する。cache は nil でもよい
func NewSeatCatalogService(catalog seat.Catalog, cache CatalogCache, ttl time.Duration) *SeatCatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogCacheTTL
	}
	return &SeatCatalogService{catalog: catalog, cache: cache, ttl: ttl}
}

// ListSeats は全座席をID順に返す
func (s *SeatCatalogService) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	// キャッシュから取得を試みる
	if s.cache != nil {
		seats, err := s.cache.GetCatalog(ctx)
		if err == nil {
			metrics.Get().RecordCatalogCache(metrics.CacheHit)
			logger.Debug("座席マスタのキャッシュヒット", zap.Int("count", len(seats)))
			return seats, nil
		}
		if errors.Is(err, redisinfra.ErrCacheMiss) {
			metrics.Get().RecordCatalogCache(metrics.CacheMiss)
		} else {
			metrics.Get().RecordCatalogCache(metrics.CacheError)
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	seats, err := s.catalog.ListSeats(ctx)
	if err != nil {
		return nil, err
	}
	seat.SortByID(seats)

	if s.cache != nil {
		if cacheErr := s.cache.SetCatalog(ctx, seats, s.ttl); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return seats, nil
}

// Refresh はストレージから座席マスタを読み直してキャッシュを置き換える。
// 座席マスタが空ならキャッシュを消し、次の読み出しをストレージに向ける
func (s *SeatCatalogService) Refresh(ctx context.Context) (int, error) {
	seats, err := s.catalog.ListSeats(ctx)
	if err != nil {
		return 0, err
	}
	if s.cache == nil {
		return len(seats), nil
	}
	if len(seats) == 0 {
		s.invalidate(ctx)
		return 0, nil
	}
	seat.SortByID(seats)
	if err := s.cache.SetCatalog(ctx, seats, s.ttl); err != nil {
		return 0, err
	}
	return len(seats), nil
}

func (s *SeatCatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

var _ seat.Catalog = (*SeatCatalogService)(nil)
