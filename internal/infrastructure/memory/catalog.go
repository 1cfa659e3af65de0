package memory

import (
	"context"
	"sync"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/showtime"
)

// SeatCatalog は固定の座席マスタ
type SeatCatalog struct {
	seats []*seat.Seat
}

// NewSeatCatalog は座席をID順に並べた座席マスタを作成する
func NewSeatCatalog(seats ...*seat.Seat) *SeatCatalog {
	sorted := make([]*seat.Seat, len(seats))
	copy(sorted, seats)
	seat.SortByID(sorted)
	return &SeatCatalog{seats: sorted}
}

func (c *SeatCatalog) ListSeats(ctx context.Context) ([]*seat.Seat, error) {
	result := make([]*seat.Seat, len(c.seats))
	for i, s := range c.seats {
		copied := *s
		result[i] = &copied
	}
	return result, nil
}

// ShowTimeDirectory はマップで保持する上映回参照
type ShowTimeDirectory struct {
	mu        sync.RWMutex
	showTimes map[int64]*showtime.ShowTime
}

func NewShowTimeDirectory(showTimes ...*showtime.ShowTime) *ShowTimeDirectory {
	d := &ShowTimeDirectory{showTimes: make(map[int64]*showtime.ShowTime, len(showTimes))}
	for _, st := range showTimes {
		d.showTimes[st.ID] = st
	}
	return d
}

// Add は上映回を登録する
func (d *ShowTimeDirectory) Add(st *showtime.ShowTime) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.showTimes[st.ID] = st
}

func (d *ShowTimeDirectory) GetByID(ctx context.Context, id int64) (*showtime.ShowTime, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	st, ok := d.showTimes[id]
	if !ok {
		return nil, showtime.ErrShowTimeNotFound
	}
	copied := *st
	return &copied, nil
}

func (d *ShowTimeDirectory) ListByIDs(ctx context.Context, ids []int64) (map[int64]*showtime.ShowTime, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	result := make(map[int64]*showtime.ShowTime, len(ids))
	for _, id := range ids {
		if st, ok := d.showTimes[id]; ok {
			copied := *st
			result[id] = &copied
		}
	}
	return result, nil
}

var (
	_ seat.Catalog       = (*SeatCatalog)(nil)
	_ showtime.Directory = (*ShowTimeDirectory)(nil)
)
