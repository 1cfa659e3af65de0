package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

const seatCatalogKey = "seats:catalog"

// cachedSeat は座席マスタのキャッシュ表現。価格は丸め誤差を避けるため文字列で保持する
type cachedSeat struct {
	ID       string          `json:"id"`
	Category seat.Category   `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// SeatCache は座席マスタのキャッシュを管理する。
// 上映回ごとの空席状況は予約台帳から都度導出するため、ここには載せない
type SeatCache struct {
	client *redis.Client
	key    string
}

// NewSeatCache は新しいSeatCacheインスタンスを作成する
func NewSeatCache(client *redis.Client) *SeatCache {
	return &SeatCache{client: client, key: seatCatalogKey}
}

// GetCatalog は座席マスタをキャッシュから取得する
func (c *SeatCache) GetCatalog(ctx context.Context) ([]*seat.Seat, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}

	var cached []cachedSeat
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(cached))
	for i, cs := range cached {
		seats[i] = seat.NewSeat(cs.ID, cs.Category, cs.Price)
	}
	return seats, nil
}

// SetCatalog は座席マスタをキャッシュに保存する
func (c *SeatCache) SetCatalog(ctx context.Context, seats []*seat.Seat, ttl time.Duration) error {
	cached := make([]cachedSeat, len(seats))
	for i, s := range seats {
		cached[i] = cachedSeat{ID: s.ID, Category: s.Category, Price: s.Price}
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は座席マスタのキャッシュを無効化する
func (c *SeatCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}
