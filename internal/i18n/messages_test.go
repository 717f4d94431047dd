package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Toto místo je již obsazené.", T(LangCS, "seat_taken"))
	assert.Equal(t, "This seat is already taken.", T(LangEN, "seat_taken"))

	// Unknown language falls back to Czech.
	assert.Equal(t, "Auto nenalezeno", T("de", "car_not_found"))

	// Unknown code surfaces as itself.
	assert.Equal(t, "no_such_code", T(LangCS, "no_such_code"))
}

func TestCatalogComplete(t *testing.T) {
	for code, m := range messages {
		assert.NotEmpty(t, m[LangCS], "missing cs message for %s", code)
		assert.NotEmpty(t, m[LangEN], "missing en message for %s", code)
	}
}
