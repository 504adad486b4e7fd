package ginmw

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/middleware"
	"github.com/gvx/kyss/typed"
)

// ValidateDocument parses the request body as a configuration document,
// matches it as T, and stores the bound value in the request context. On
// failure the request is aborted with 400 and an issues payload.
func ValidateDocument[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		v, err := typed.Parse[T](c.Request.Context(), data)
		if err != nil {
			if iss, ok := kyss.AsIssues(err); ok {
				c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				c.Abort()
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithMatched(c.Request.Context(), v))
		c.Next()
	}
}

// GetMatched fetches the bound T from gin.Context.
func GetMatched[T any](c *gin.Context) (T, bool) {
	return middleware.MatchedFromContext[T](c.Request.Context())
}
