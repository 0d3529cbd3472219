package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*echo.Echo, *Store) {
	t.Helper()
	s := setupTestStore(t)
	h, err := NewHandler(context.Background(), s, "soulfiremc.com")
	require.NoError(t, err)

	e := echo.New()
	h.Register(e.Group("/_vercel/insights"))
	return e, s
}

func post(e *echo.Echo, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func topPaths(t *testing.T, s *Store) []PathStat {
	t.Helper()
	now := time.Now().UTC()
	stats, err := s.TopPaths(context.Background(), now.Add(-time.Hour), now.Add(time.Hour), 10)
	require.NoError(t, err)
	return stats
}

func TestViewIsStored(t *testing.T) {
	e, s := newTestServer(t)

	rec := post(e, "/_vercel/insights/view", `{"o":"https://soulfiremc.com/docs","r":"https://github.com/","ts":1}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []PathStat{{Path: "/docs", Views: 1, Visitors: 1}}, topPaths(t, s))
}

func TestSaveFailureStillAccepted(t *testing.T) {
	e, s := newTestServer(t)
	require.NoError(t, s.Close())

	rec := post(e, "/_vercel/insights/view", `{"o":"https://soulfiremc.com/docs"}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDoNotTrackIsHonored(t *testing.T) {
	e, s := newTestServer(t)

	rec := post(e, "/_vercel/insights/view", `{"o":"https://soulfiremc.com/docs"}`, map[string]string{"DNT": "1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, topPaths(t, s))
}

func TestBotsAreDropped(t *testing.T) {
	e, s := newTestServer(t)

	rec := post(e, "/_vercel/insights/view", `{"o":"https://soulfiremc.com/docs"}`, map[string]string{"User-Agent": "Googlebot/2.1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, topPaths(t, s))
}

func TestInvalidBeacon(t *testing.T) {
	e, _ := newTestServer(t)

	rec := post(e, "/_vercel/insights/view", `{"r":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(e, "/_vercel/insights/event", `{"o":"https://soulfiremc.com/"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventIsNotCountedAsView(t *testing.T) {
	e, s := newTestServer(t)

	rec := post(e, "/_vercel/insights/event", `{"o":"https://soulfiremc.com/","en":"download","ed":{"os":"linux"}}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, topPaths(t, s))
}

func TestScriptIsServed(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/_vercel/insights/script.js", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "javascript")
	assert.Contains(t, rec.Body.String(), "/_vercel/insights")
}
