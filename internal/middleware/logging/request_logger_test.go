package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "debug", "test")))
	e.GET("/items/:id", func(c echo.Context) error {
		l := logging.Handler(c.Request().Context(), "items.get")
		l.Info().Msg("inside")
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	req := httptest.NewRequest(http.MethodGet, "/items/3", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "inside", got[0]["message"])
	assert.Equal(t, "items.get", got[0]["handler"])
	assert.Equal(t, "rid-1", got[0]["request_id"])
	assert.Equal(t, "/items/:id", got[1]["path"])
	assert.Equal(t, "info", got[1]["level"])
	assert.EqualValues(t, 200, got[1]["status"])

	buf.Reset()
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	got = lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "warn", got[0]["level"])
	assert.EqualValues(t, 404, got[0]["status"])
}
