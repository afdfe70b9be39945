package middleware

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"evmarket.io/marketplace-api/app/utils/contextkeys"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxLoggedBody = 4096

var redactedHeaders = []string{"Authorization", "Cookie", "X-Callback-Secret"}

type BodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w BodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func LoggerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New().String()
		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, contextkeys.RequestId{}, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)

		// Credentials travel in auth bodies, so those are never captured.
		captureBody := !strings.Contains(c.Request.URL.Path, "/auth/")
		var reqBody []byte
		if captureBody && c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		blw := &BodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		headers := c.Request.Header.Clone()
		for _, h := range redactedHeaders {
			if headers.Get(h) != "" {
				headers.Set(h, "[redacted]")
			}
		}
		respBody := ""
		if captureBody {
			respBody = truncate(blw.body.String())
		}

		duration := time.Since(start)
		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"host":       c.Request.Host,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"headers":    headers,
			"req_body":   truncate(string(reqBody)),
			"resp_body":  respBody,
			"latency":    duration.String(),
			"client_ip":  c.ClientIP(),
		}).Info("")
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "...(truncated)"
}
