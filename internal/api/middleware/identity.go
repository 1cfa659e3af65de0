package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	identityKey = "identity"
)

// Role は認証側から渡される利用者の種別
type Role string

const (
	RoleCustomer Role = "customer"
	RoleGuest    Role = "guest"
	RoleViewer   Role = "viewer"
)

// CanBook は予約を作成できる種別かを返す
func (r Role) CanBook() bool {
	return r == RoleCustomer
}

// Identity は認証済みの利用者
type Identity struct {
	UserID int64
	Role   Role
}

// RequireIdentity は X-User-ID と X-User-Role から利用者を取り出してコンテキストに載せる。
// 認証自体は前段で済んでいる前提で、ここではヘッダーの形式だけを確認する
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderUserID)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
			}
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが不正です")
			}

			role := Role(strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole))))
			switch role {
			case "":
				role = RoleCustomer
			case RoleCustomer, RoleGuest, RoleViewer:
			default:
				return echo.NewHTTPError(http.StatusBadRequest, "不明なユーザー種別です")
			}

			c.Set(identityKey, Identity{UserID: userID, Role: role})
			return next(c)
		}
	}
}

// IdentityFrom はコンテキストから利用者を取り出す
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
