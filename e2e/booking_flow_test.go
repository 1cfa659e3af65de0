package e2e

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/api/middleware"
)

type seatStatus struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Status   string `json:"status"`
}

type bookingSummary struct {
	BookingID  int64  `json:"booking_id"`
	MovieTitle string `json:"movie_title"`
	ShowTime   struct {
		ID   int64  `json:"id"`
		Date string `json:"date"`
	} `json:"show_time"`
	Seats []struct {
		ID    string `json:"id"`
		Price string `json:"price"`
	} `json:"seats"`
	TotalPrice string `json:"total_price"`
}

type errorBody struct {
	Error            string   `json:"error"`
	ConflictingSeats []string `json:"conflicting_seats"`
}

func statuses(t *testing.T, s *TestServer, path string) map[string]string {
	t.Helper()
	rec := s.Request(http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []seatStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	out := make(map[string]string, len(resp))
	for _, st := range resp {
		out[st.ID] = st.Status
	}
	return out
}

// TestE2E_HealthCheck はヘルスチェックをテスト
func TestE2E_HealthCheck(t *testing.T) {
	server := getTestServer(t)

	rec := server.Request(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

// TestE2E_CompleteBookingJourney は予約から履歴確認までの一連の流れをテスト
func TestE2E_CompleteBookingJourney(t *testing.T) {
	server := getTestServer(t)
	const path = "/api/v1/showtimes/1/bookings"

	t.Run("座席マスタ取得", func(t *testing.T) {
		rec := server.Request(http.MethodGet, "/api/v1/seats", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []seatStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 7)
		assert.Equal(t, "A1", resp[0].ID)
		assert.Equal(t, "50.00", resp[0].Price)
		assert.Equal(t, "COUPLE", resp[6].Category)
	})

	t.Run("別ユーザーがA1とA2を予約", func(t *testing.T) {
		rec := server.Request(http.MethodPost, path, map[string]interface{}{
			"seat_ids": []string{"A1", "A2"},
		}, asUser("2"))
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("A3とB3を予約", func(t *testing.T) {
		rec := server.Request(http.MethodPost, path, map[string]interface{}{
			"seat_ids": []string{"B3", "A3"},
		}, asUser("1"))
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp bookingSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotZero(t, resp.BookingID)
		assert.Equal(t, "E2E Movie", resp.MovieTitle)
		assert.Equal(t, "2026-11-01", resp.ShowTime.Date)
		require.Len(t, resp.Seats, 2)
		assert.Equal(t, "A3", resp.Seats[0].ID)
		assert.Equal(t, "B3", resp.Seats[1].ID)
		assert.Equal(t, "100.00", resp.TotalPrice)
	})

	t.Run("空席状況", func(t *testing.T) {
		got := statuses(t, server, "/api/v1/showtimes/1/seats")
		require.Len(t, got, 7)
		for _, id := range []string{"A1", "A2", "A3", "B3"} {
			assert.Equal(t, "BOOKED", got[id], id)
		}
		for _, id := range []string{"B1", "B2", "C1"} {
			assert.Equal(t, "AVAILABLE", got[id], id)
		}
	})

	t.Run("別の上映回には影響しない", func(t *testing.T) {
		got := statuses(t, server, "/api/v1/showtimes/2/seats")
		for id, st := range got {
			assert.Equal(t, "AVAILABLE", st, id)
		}
	})

	t.Run("予約履歴", func(t *testing.T) {
		rec := server.Request(http.MethodGet, "/api/v1/bookings", nil, asUser("1"))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []bookingSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "E2E Movie", resp[0].MovieTitle)
		assert.Equal(t, "100.00", resp[0].TotalPrice)
	})
}

// TestE2E_BookingConflict は予約済み座席を含む予約が何も確保しないことをテスト
func TestE2E_BookingConflict(t *testing.T) {
	server := getTestServer(t)
	const path = "/api/v1/showtimes/1/bookings"

	rec := server.Request(http.MethodPost, path, map[string]interface{}{
		"seat_ids": []string{"A1"},
	}, asUser("1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.Request(http.MethodPost, path, map[string]interface{}{
		"seat_ids": []string{"A1", "A2"},
	}, asUser("2"))
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A1"}, resp.ConflictingSeats)

	got := statuses(t, server, "/api/v1/showtimes/1/seats")
	assert.Equal(t, "AVAILABLE", got["A2"])

	rec = server.Request(http.MethodGet, "/api/v1/bookings", nil, asUser("2"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// TestE2E_InvalidRequests は入力エラーと権限エラーのステータスをテスト
func TestE2E_InvalidRequests(t *testing.T) {
	server := getTestServer(t)

	tests := []struct {
		name    string
		path    string
		body    interface{}
		headers map[string]string
		want    int
	}{
		{"空の座席リスト", "/api/v1/showtimes/1/bookings", map[string]interface{}{"seat_ids": []string{}}, asUser("1"), http.StatusBadRequest},
		{"存在しない座席", "/api/v1/showtimes/1/bookings", map[string]interface{}{"seat_ids": []string{"Z9"}}, asUser("1"), http.StatusBadRequest},
		{"存在しない上映回", "/api/v1/showtimes/999/bookings", map[string]interface{}{"seat_ids": []string{"A1"}}, asUser("1"), http.StatusBadRequest},
		{"重複した座席", "/api/v1/showtimes/1/bookings", map[string]interface{}{"seat_ids": []string{"A1", "A1"}}, asUser("1"), http.StatusBadRequest},
		{"ユーザーIDなし", "/api/v1/showtimes/1/bookings", map[string]interface{}{"seat_ids": []string{"A1"}}, nil, http.StatusUnauthorized},
		{"ゲストは予約できない", "/api/v1/showtimes/1/bookings", map[string]interface{}{"seat_ids": []string{"A1"}},
			map[string]string{middleware.HeaderUserID: "1", middleware.HeaderUserRole: "guest"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := server.Request(http.MethodPost, tt.path, tt.body, tt.headers)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	got := statuses(t, server, "/api/v1/showtimes/1/seats")
	assert.Equal(t, "AVAILABLE", got["A1"])

	rec := server.Request(http.MethodGet, "/api/v1/showtimes/999/seats", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestE2E_ConcurrentBooking は同じ座席への同時予約で1件だけ成功することをテスト
func TestE2E_ConcurrentBooking(t *testing.T) {
	server := getTestServer(t)
	const path = "/api/v1/showtimes/1/bookings"
	const users = 20

	var success, conflict int64
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := server.Request(http.MethodPost, path, map[string]interface{}{
				"seat_ids": []string{"B1", "B2"},
			}, asUser(strconv.Itoa(i+1)))
			switch rec.Code {
			case http.StatusCreated:
				atomic.AddInt64(&success, 1)
			case http.StatusConflict:
				atomic.AddInt64(&conflict, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), success)
	assert.Equal(t, int64(users-1), conflict)

	var count int
	require.NoError(t, testDB.Get(&count, `SELECT COUNT(*) FROM booked_seats WHERE show_time_id = 1`))
	assert.Equal(t, 2, count)
}
