package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/config"
	"github.com/raf-alpha/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tokens *utils.Tokens) *gin.Engine {
	r := gin.New()
	g := r.Group("/", AuthMiddleware(tokens))
	g.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetUser(c))
	})
	g.DELETE("/users", RequireRole("SuperAdmin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokens(secret, time.Hour)
	r := protectedRouter(tokens)

	admin, err := tokens.Issue(3, "Admin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", admin, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/me", tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := do(r, http.MethodGet, "/me", "Bearer "+admin)
	assert.JSONEq(t, `{"user_id":3,"role":"Admin"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	tokens := utils.NewTokens(secret, time.Hour)
	r := protectedRouter(tokens)

	admin, err := tokens.Issue(3, "Admin")
	require.NoError(t, err)
	super, err := tokens.Issue(1, "SuperAdmin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/users", "Bearer "+admin).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/users", "Bearer "+super).Code)

	// without the auth middleware in front there is no user at all
	bare := gin.New()
	bare.GET("/", RequireRole("SuperAdmin"), func(c *gin.Context) {})
	assert.Equal(t, http.StatusUnauthorized, do(bare, http.MethodGet, "/", "").Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		AllowedOrigins:   "https://admin.raf.sa, https://raf.sa",
		AllowedMethods:   "GET,POST",
		AllowedHeaders:   "Authorization",
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://raf.sa")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://raf.sa", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggerAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestID(), Logger(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)

	buf.Reset()
	w = do(r, http.MethodGet, "/boom", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
