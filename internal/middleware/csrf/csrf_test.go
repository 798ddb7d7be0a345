package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/x", ok)
	e.POST("/x", ok)
	return e
}

func TestSafeMethodsIssueToken(t *testing.T) {
	e := newServer(DefaultConfig())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	assert.Len(t, token, 43)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "XSRF-TOKEN="+token)
}

func TestUnsafeMethods(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnforceSameOrigin = false
	cfg.Skipper = WithoutCookie("accessToken")
	e := newServer(cfg)

	post := func(mutate func(*http.Request)) int {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		mutate(req)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	session := &http.Cookie{Name: "accessToken", Value: "jwt"}
	xsrf := &http.Cookie{Name: "XSRF-TOKEN", Value: "abc"}

	assert.Equal(t, http.StatusNoContent, post(func(r *http.Request) {}), "no session cookie")

	assert.Equal(t, http.StatusForbidden, post(func(r *http.Request) {
		r.AddCookie(session)
		r.AddCookie(xsrf)
	}))

	assert.Equal(t, http.StatusForbidden, post(func(r *http.Request) {
		r.AddCookie(session)
		r.AddCookie(xsrf)
		r.Header.Set("X-CSRF-Token", "abd")
	}))

	assert.Equal(t, http.StatusNoContent, post(func(r *http.Request) {
		r.AddCookie(session)
		r.AddCookie(xsrf)
		r.Header.Set("X-CSRF-Token", "abc")
	}))
}

func TestSameOrigin(t *testing.T) {
	e := newServer(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "http://shop.test/x", nil)
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
	req.Header.Set("X-CSRF-Token", "abc")
	req.Header.Set("Origin", "http://evil.test")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req.Header.Set("Origin", "http://shop.test")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
