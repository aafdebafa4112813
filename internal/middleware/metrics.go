// Package middleware holds gin middleware specific to the course admin API.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// UnmatchedRoute is the path label used for requests that hit no registered route, which keeps
// label cardinality bounded when clients probe arbitrary URLs.
const UnmatchedRoute = "unmatched"

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Metrics reports each request to observer, labelled by route pattern rather than raw path.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if observer == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = UnmatchedRoute
		}
		observer.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
