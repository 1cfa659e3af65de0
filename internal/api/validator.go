package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator はEcho用のカスタムバリデーター
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する。
// seat_id タグは座席IDとして使える文字列（空白なし・最大16文字）を検証する
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("seat_id", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && len(s) <= 16 && !strings.ContainsAny(s, " \t\r\n")
	})
	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
