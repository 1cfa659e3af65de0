package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error            string   `json:"error"`
	Code             int      `json:"code,omitempty"`
	Details          string   `json:"details,omitempty"`
	ConflictingSeats []string `json:"conflicting_seats,omitempty"`
	Retryable        bool     `json:"retryable,omitempty"`
}

// StatusFor は予約ドメインのエラーをHTTPステータスに対応付ける
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, booking.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrBookingNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrSeatUnavailable):
		return http.StatusConflict
	case errors.Is(err, booking.ErrPersistenceFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse はエラーからレスポンスを組み立てる。5xx の詳細は外に出さない
func NewErrorResponse(err error) ErrorResponse {
	code := StatusFor(err)
	resp := ErrorResponse{Code: code}

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if m, ok := he.Message.(string); ok {
			resp.Error = m
		} else {
			resp.Error = http.StatusText(code)
		}
	case errors.Is(err, booking.ErrSeatUnavailable):
		resp.Error = booking.ErrSeatUnavailable.Error()
		resp.ConflictingSeats, _ = booking.ConflictingSeats(err)
	case errors.Is(err, booking.ErrPersistenceFailure):
		resp.Error = booking.ErrPersistenceFailure.Error()
		resp.Retryable = true
	case code == http.StatusInternalServerError:
		resp.Error = "内部サーバーエラー"
	default:
		resp.Error = err.Error()
	}
	return resp
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := NewErrorResponse(err)

	// エラーログを出力（5xx エラーの場合）
	if resp.Code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", resp.Code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.Code)
	} else {
		err = c.JSON(resp.Code, resp)
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
