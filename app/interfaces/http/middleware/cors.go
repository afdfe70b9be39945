package middleware

import (
	"net/http"
	"strings"

	"evmarket.io/marketplace-api/app/utils/logger"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/gin-gonic/gin"
	"github.com/gobwas/glob"
)

const (
	corsAllowHeaders  = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Callback-Secret"
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsExposeHeaders = "X-Request-ID"
)

// originMatcher accepts exact origins and glob patterns such as https://*.evmarket.io.
type originMatcher struct {
	exact    map[string]struct{}
	patterns []glob.Glob
}

func newOriginMatcher(hosts []string) *originMatcher {
	m := &originMatcher{exact: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.ContainsAny(h, "*?[{") {
			m.exact[h] = struct{}{}
			continue
		}
		g, err := glob.Compile(h, '.', ':', '/')
		if err != nil {
			logger.GetLogger().Warnf("ignoring invalid CORS origin pattern %q: %v", h, err)
			continue
		}
		m.patterns = append(m.patterns, g)
	}
	return m
}

func (m *originMatcher) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, g := range m.patterns {
		if g.Match(origin) {
			return true
		}
	}
	return false
}

// CORS reflects allowed origins from ALLOWED_CORS_HOSTS. Preflight requests end here.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		matcher := newOriginMatcher(environment_variables.EnvironmentVariables.ALLOWED_CORS_HOSTS)
		origin := c.Request.Header.Get("Origin")
		header := c.Writer.Header()
		header.Add("Vary", "Origin")
		if matcher.allows(origin) {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			header.Set("Access-Control-Allow-Methods", corsAllowMethods)
			header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
