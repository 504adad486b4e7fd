package echomw

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/middleware"
	"github.com/gvx/kyss/typed"
)

// ValidateDocument parses the request body as a configuration document,
// matches it as T and stores the bound value in the request context, or
// returns 400 with an issues payload when matching fails.
func ValidateDocument[T any]() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			v, err := typed.Parse[T](c.Request().Context(), data)
			if err != nil {
				if iss, ok := kyss.AsIssues(err); ok {
					return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				}
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			ctx := middleware.ContextWithMatched(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetMatched fetches the bound T from echo.Context.
func GetMatched[T any](c echo.Context) (T, bool) {
	return middleware.MatchedFromContext[T](c.Request().Context())
}
