package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-seat-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-seat-reservation/internal/application"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1,dive,seat_id" example:"A3,B3"`
}

// Create godoc
// @Summary 座席を予約
// @Description 上映回の座席をまとめて予約します。1席でも予約済みなら何も確保せず409を返します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header int true "ユーザーID"
// @Param X-User-Role header string false "customer / guest / viewer"
// @Param show_time_id path int true "上映回ID"
// @Param request body CreateBookingRequest true "座席ID"
// @Success 201 {object} BookingSummaryResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "conflicting_seats に予約済みの座席"
// @Failure 503 {object} api.ErrorResponse
// @Router /showtimes/{show_time_id}/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	showTimeID, err := parseShowTimeID(c)
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	summary, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID:     id.UserID,
		ShowTimeID: showTimeID,
		SeatIDs:    req.SeatIDs,
		CanBook:    id.Role.CanBook(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBookingSummaryResponse(summary))
}

// History godoc
// @Summary 予約履歴を取得
// @Description ログインユーザーの予約を新しい順に返します
// @Tags bookings
// @Produce json
// @Param X-User-ID header int true "ユーザーID"
// @Success 200 {array} BookingSummaryResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) History(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	summaries, err := h.service.ViewBookingHistory(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	resp := make([]BookingSummaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = toBookingSummaryResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

func parseShowTimeID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("show_time_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}
	return id, nil
}
