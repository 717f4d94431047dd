package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveLang(t *testing.T, setup func(*http.Request)) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	setup(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got string
	h := Language()(func(c echo.Context) error {
		got, _ = c.Get("lang").(string)
		return nil
	})
	require.NoError(t, h(c))
	return got
}

func TestLanguageHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US,en;q=0.9", "en"},
		{"cs-CZ,cs;q=0.9", "cs"},
		{"de-DE", "cs"},
		{"", "cs"},
	}
	for _, tc := range cases {
		got := resolveLang(t, func(r *http.Request) {
			if tc.header != "" {
				r.Header.Set("Accept-Language", tc.header)
			}
		})
		assert.Equal(t, tc.want, got, "header %q", tc.header)
	}
}

func TestLanguageCookieFallback(t *testing.T) {
	got := resolveLang(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
	})
	assert.Equal(t, "en", got)

	// Header beats cookie.
	got = resolveLang(t, func(r *http.Request) {
		r.Header.Set("Accept-Language", "cs")
		r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
	})
	assert.Equal(t, "cs", got)
}
