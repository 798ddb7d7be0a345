package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/tokens"
)

var secret = []byte("access-secret")

func issue(t *testing.T, userID uint, role models.Role, ttl time.Duration) string {
	t.Helper()
	iss := &tokens.Issuer{AccessSecret: secret, RefreshSecret: []byte("r"), AccessTTL: ttl, RefreshTTL: time.Hour}
	pair, err := iss.Issue(userID, string(role))
	require.NoError(t, err)
	return pair.AccessToken
}

func newServer() *echo.Echo {
	e := echo.New()
	a := NewAuthenticator(secret)
	whoami := func(c echo.Context) error {
		id, _ := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c)})
	}
	e.GET("/me", whoami, a.RequireAuth)
	e.GET("/staff", whoami, a.RequireAuth, RequireStaff)
	e.GET("/admin", whoami, a.RequireAuth, RequireAdmin)
	return e
}

func do(e *echo.Echo, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+token) }
}

func TestRequireAuth(t *testing.T) {
	e := newServer()

	t.Run("bearer header", func(t *testing.T) {
		rec := do(e, "/me", bearer(issue(t, 7, models.RoleCustomer, time.Minute)))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":7,"role":"usuario"}`, rec.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		token := issue(t, 8, models.RoleAdmin, time.Minute)
		rec := do(e, "/me", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookie, Value: token}) })
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":8,"role":"admin"}`, rec.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(e, "/me", nil).Code)
	})

	t.Run("expired cookie is cleared", func(t *testing.T) {
		token := issue(t, 9, models.RoleCustomer, -time.Minute)
		rec := do(e, "/me", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookie, Value: token}) })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), AccessCookie+"=;")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := do(e, "/me", func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Basic abc") })
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		iss := &tokens.Issuer{AccessSecret: []byte("other"), RefreshSecret: []byte("r"), AccessTTL: time.Minute, RefreshTTL: time.Hour}
		pair, err := iss.Issue(1, "admin")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do(e, "/me", bearer(pair.AccessToken)).Code)
	})
}

func TestRequireAuth_RenewsExpiredCookie(t *testing.T) {
	iss := &tokens.Issuer{AccessSecret: secret, RefreshSecret: []byte("r"), AccessTTL: time.Minute, RefreshTTL: time.Hour}
	var presented []string

	e := echo.New()
	a := NewAuthenticator(secret)
	a.Refresh = func(_ context.Context, refreshToken string) (*tokens.Pair, error) {
		presented = append(presented, refreshToken)
		if refreshToken != "live" {
			return nil, errors.New("revoked")
		}
		return iss.Issue(5, string(models.RoleCustomer))
	}
	e.GET("/me", func(c echo.Context) error {
		id, _ := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id})
	}, a.RequireAuth)

	expired := issue(t, 5, models.RoleCustomer, -time.Minute)
	withCookies := func(refresh string) func(*http.Request) {
		return func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessCookie, Value: expired})
			r.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh})
		}
	}

	rec := do(e, "/me", withCookies("live"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5}`, rec.Body.String())
	renewed := map[string]string{}
	for _, ck := range rec.Result().Cookies() {
		renewed[ck.Name] = ck.Value
	}
	assert.NotEmpty(t, renewed[AccessCookie])
	assert.NotEqual(t, expired, renewed[AccessCookie])
	assert.NotEmpty(t, renewed[RefreshCookie])

	rec = do(e, "/me", withCookies("dead"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"live", "dead"}, presented)

	rec = do(e, "/me", bearer(expired))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "bearer tokens are never renewed")
	assert.Len(t, presented, 2)
}

func TestOptionalAuth(t *testing.T) {
	e := echo.New()
	a := NewAuthenticator(secret)
	e.GET("/maybe", func(c echo.Context) error {
		id, ok := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "known": ok, "role": Role(c)})
	}, a.OptionalAuth)

	rec := do(e, "/maybe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":0,"known":false,"role":""}`, rec.Body.String())

	rec = do(e, "/maybe", bearer(issue(t, 4, models.RoleAdmin, time.Minute)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":4,"known":true,"role":"admin"}`, rec.Body.String())

	rec = do(e, "/maybe", bearer("garbage"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":0,"known":false,"role":""}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := newServer()

	cases := []struct {
		role  models.Role
		path  string
		allow bool
	}{
		{models.RoleCustomer, "/staff", false},
		{models.RoleReceptionist, "/staff", true},
		{models.RoleAdmin, "/staff", true},
		{models.RoleReceptionist, "/admin", false},
		{models.RoleAdmin, "/admin", true},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+tc.path, func(t *testing.T) {
			rec := do(e, tc.path, bearer(issue(t, 1, tc.role, time.Minute)))
			if tc.allow {
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		})
	}
}
