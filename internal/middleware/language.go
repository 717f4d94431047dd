package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitzy/sitzy/internal/i18n"
)

// Language resolves the response language for a request and stores it in the
// context under "lang".  The Accept-Language header wins, then a "lang"
// cookie; anything outside the supported set falls back to Czech.
func Language() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.Request().Header.Get("Accept-Language")
			if lang == "" {
				if ck, err := c.Cookie("lang"); err == nil {
					lang = ck.Value
				}
			}
			lang = strings.ToLower(strings.TrimSpace(lang))
			// "cs-CZ,cs;q=0.9" -> "cs"
			if i := strings.IndexAny(lang, ",;-"); i >= 0 {
				lang = lang[:i]
			}
			if lang != i18n.LangCS && lang != i18n.LangEN {
				lang = i18n.LangCS
			}
			c.Set("lang", lang)
			return next(c)
		}
	}
}
