package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/models"
	"github.com/nexora-app/nexora_backend/security"
)

// ContentTypeGuard rejects body-carrying requests whose Content-Type is not
// one of the supported media types. Reads and empty-bodied requests pass
// through untouched.
func ContentTypeGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if c.Request().ContentLength != 0 {
					contentType := c.Request().Header.Get(echo.HeaderContentType)
					if !security.ValidateContentType(contentType) {
						return c.JSON(http.StatusUnsupportedMediaType, models.Response{
							Status:  http.StatusUnsupportedMediaType,
							Message: "Unsupported content type",
						})
					}
				}
			}
			return next(c)
		}
	}
}
