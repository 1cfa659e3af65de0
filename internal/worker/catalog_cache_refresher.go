package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/logger"
)

// CatalogRefresher は座席マスタのキャッシュを読み直すインターフェース
type CatalogRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// CatalogCacheRefresher は座席マスタのキャッシュを定期的に入れ替えるワーカー。
// 予約処理の経路には入らず、キャッシュが TTL で切れる前に温め直すだけ
type CatalogCacheRefresher struct {
	catalog  CatalogRefresher
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewCatalogCacheRefresher は新しいリフレッシャーを作成
func NewCatalogCacheRefresher(catalog CatalogRefresher, interval time.Duration) *CatalogCacheRefresher {
	return &CatalogCacheRefresher{
		catalog:  catalog,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はリフレッシャーを開始し、停止するまでブロックする。起動直後に1度キャッシュを温める
func (r *CatalogCacheRefresher) Start(ctx context.Context) {
	logger.Info("座席マスタキャッシュのリフレッシャー開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	r.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("座席マスタキャッシュのリフレッシャー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("座席マスタキャッシュのリフレッシャー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop はリフレッシャーを停止し、ループの終了を待つ。Start 前に呼んではいけない
func (r *CatalogCacheRefresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

// refresh は座席マスタを読み直す。失敗してもキャッシュの読み出し側はDBに戻るのでログだけ残す
func (r *CatalogCacheRefresher) refresh(ctx context.Context) {
	log := logger.Get()
	log.Debug("座席マスタキャッシュの更新開始")

	count, err := r.catalog.Refresh(ctx)
	if err != nil {
		log.Warn("座席マスタキャッシュの更新失敗", zap.Error(err))
		return
	}
	log.Debug("座席マスタキャッシュを更新", zap.Int("seats", count))
}
