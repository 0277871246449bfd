package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		trust   bool
		headers map[string]string
		want    string
	}{
		{"cloudflare header", true, map[string]string{"CF-Connecting-IP": "203.0.113.1", "X-Forwarded-For": "198.51.100.9"}, "203.0.113.1"},
		{"left-most forwarded", true, map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.1"}, "198.51.100.9"},
		{"garbage header ignored", true, map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.0.2.10"},
		{"untrusted proxy headers ignored", false, map[string]string{"CF-Connecting-IP": "203.0.113.1"}, "192.0.2.10"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			_ = r.SetTrustedProxies(nil)
			var got string
			r.GET("/", RealIP(tc.trust), func(c *gin.Context) { got = c.GetString("real_ip") })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.10:5555"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got string
	r.GET("/", RequestIDMiddleware(), func(c *gin.Context) { got = c.GetString("request_id") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, got, 36)
	assert.Equal(t, got, w.Header().Get(RequestIDHeader))

	const inbound = "0b7f0b8e-4c4c-4b8e-9a51-6f4a3f1f2d11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, inbound)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, inbound, got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", got)
}
