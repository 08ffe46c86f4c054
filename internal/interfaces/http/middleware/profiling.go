package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profile label names
const (
	ProfileLabelMethod = "method"
	ProfileLabelRoute  = "route"
	ProfileLabelArea   = "area"
)

// Profiling tags CPU and allocation samples taken while a request runs with
// its route pattern, so profiles can be split by screen and section.
// Probes are not labelled.
func Profiling(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if !enabled || route == "" || route == "/health" || route == "/ready" {
			c.Next()
			return
		}

		labels := pyroscope.Labels(
			ProfileLabelMethod, c.Request.Method,
			ProfileLabelRoute, route,
			ProfileLabelArea, routeArea(c, route),
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// routeArea names the console area a route belongs to: the entity for
// screen routes, otherwise the first static segment under the API prefix.
func routeArea(c *gin.Context, route string) string {
	if entity := c.Param("entity"); entity != "" {
		return entity
	}
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || strings.HasPrefix(part, ":") || isAPIVersion(part) {
			continue
		}
		return part
	}
	return "root"
}

func isAPIVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
