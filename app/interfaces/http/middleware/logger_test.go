package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func serve(t *testing.T, path, body string, header http.Header) (*test.Hook, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	engine := gin.New()
	engine.Use(LoggerMiddleware(logger))
	engine.POST("/*path", func(c *gin.Context) {
		c.String(http.StatusCreated, `{"token":"server-secret"}`)
	})
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if len(hook.Entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(hook.Entries))
	}
	return hook, rec
}

func TestLoggerRedactsCredentials(t *testing.T) {
	hook, rec := serve(t, "/v1/listings", `{"title":"Ioniq 5"}`, http.Header{
		"Authorization":     {"Bearer abc"},
		"X-Callback-Secret": {"s3cret"},
		"Accept":            {"application/json"},
	})
	entry := hook.LastEntry()
	headers := entry.Data["headers"].(http.Header)
	if headers.Get("Authorization") != "[redacted]" || headers.Get("X-Callback-Secret") != "[redacted]" {
		t.Errorf("headers not redacted: %v", headers)
	}
	if headers.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", headers.Get("Accept"))
	}
	if entry.Data["req_body"] != `{"title":"Ioniq 5"}` {
		t.Errorf("req_body = %v", entry.Data["req_body"])
	}
	if entry.Data["status"] != http.StatusCreated {
		t.Errorf("status = %v", entry.Data["status"])
	}
	if rec.Header().Get("X-Request-ID") != entry.Data["request_id"] {
		t.Error("X-Request-ID does not match the logged request id")
	}
	if entry.Level != logrus.InfoLevel {
		t.Errorf("level = %v", entry.Level)
	}
}

func TestLoggerSkipsAuthBodies(t *testing.T) {
	hook, rec := serve(t, "/v1/auth/login", `{"password":"hunter22"}`, nil)
	entry := hook.LastEntry()
	if entry.Data["req_body"] != "" || entry.Data["resp_body"] != "" {
		t.Errorf("auth bodies logged: %v / %v", entry.Data["req_body"], entry.Data["resp_body"])
	}
	if rec.Body.String() != `{"token":"server-secret"}` {
		t.Errorf("response body altered: %q", rec.Body.String())
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxLoggedBody+10)
	if got := truncate(long); len(got) != maxLoggedBody+len("...(truncated)") {
		t.Errorf("truncated length = %d", len(got))
	}
	if got := truncate("short"); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
}
