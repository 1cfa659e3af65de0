package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

// List godoc
// @Summary 座席マスタを取得
// @Tags seats
// @Produce json
// @Success 200 {array} SeatResponse
// @Router /seats [get]
func (h *SeatHandler) List(c echo.Context) error {
	seats, err := h.service.ListSeats(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(*s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary 上映回の空席状況を取得
// @Description 座席マスタの全座席を AVAILABLE / BOOKED 付きで返します
// @Tags seats
// @Produce json
// @Param show_time_id path int true "上映回ID"
// @Success 200 {array} SeatStatusResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /showtimes/{show_time_id}/seats [get]
func (h *SeatHandler) Status(c echo.Context) error {
	showTimeID, err := parseShowTimeID(c)
	if err != nil {
		return err
	}
	statuses, err := h.service.ViewSeatsStatus(c.Request().Context(), showTimeID)
	if err != nil {
		return err
	}
	resp := make([]SeatStatusResponse, len(statuses))
	for i, s := range statuses {
		resp[i] = toSeatStatusResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}
