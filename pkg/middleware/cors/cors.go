package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Browser clients need to read the timetable download headers; everything
// else stays same-origin metadata.
const exposedHeaders = "Content-Disposition, X-Download-Token, X-Download-Expires, X-Request-ID"

const allowedHeaders = "Authorization, Content-Type, X-Request-ID"

// New returns a CORS middleware restricted to the configured portal
// origins. An empty allowlist opens the API to any origin, which is only
// intended for local development.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowlist := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowlist[strings.TrimRight(origin, "/")] = struct{}{}
	}
	allowAny := len(allowlist) == 0

	return func(c *gin.Context) {
		header := c.Writer.Header()
		origin := c.GetHeader("Origin")
		switch {
		case origin != "" && (allowAny || originAllowed(allowlist, origin)):
			header.Set("Access-Control-Allow-Origin", origin)
		case origin == "" && allowAny:
			header.Set("Access-Control-Allow-Origin", "*")
		}

		header.Set("Vary", "Origin")
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Headers", allowedHeaders)
		header.Set("Access-Control-Expose-Headers", exposedHeaders)
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		header.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(allowlist map[string]struct{}, origin string) bool {
	_, ok := allowlist[strings.TrimRight(origin, "/")]
	return ok
}
