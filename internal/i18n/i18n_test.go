package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoadsEmbeddedLocales(t *testing.T) {
	catalog, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "en", catalog.Languages()[0])
	assert.Contains(t, catalog.Languages(), "es")
}

func TestForRequestPrefersQueryOverHeader(t *testing.T) {
	catalog, err := New("en")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/?lang=es", nil)
	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, "es", catalog.ForRequest(r).Lang())

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Accept-Language", "es-MX,es;q=0.9,en;q=0.5")
	assert.Equal(t, "Siguiente", catalog.ForRequest(r).T("NextPage"))
}

func TestUnsupportedLanguageFallsBackToDefault(t *testing.T) {
	catalog, err := New("en")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Accept-Language", "ja")
	loc := catalog.ForRequest(r)

	assert.Equal(t, "en", loc.Lang())
	assert.Equal(t, "Next", loc.T("NextPage"))
}

func TestTemplatesAndPlurals(t *testing.T) {
	catalog, err := New("en")
	require.NoError(t, err)
	loc := catalog.For("en")

	assert.Equal(t, "Page 2 of 3", loc.Tf("PageOf", map[string]any{"Current": 2, "Total": 3}))
	assert.Equal(t, "1 repository", loc.Plural("RepositoryCount", 1))
	assert.Equal(t, "25 repositories", loc.Plural("RepositoryCount", 25))
	assert.Equal(t, "Repositorios de golang", catalog.For("es").Tf("RepositoriesOf", map[string]any{"Owner": "golang"}))
}

func TestMissingMessageReturnsID(t *testing.T) {
	catalog, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "NoSuchMessage", catalog.For("en").T("NoSuchMessage"))

	var nilLocalizer *Localizer
	assert.Equal(t, "NextPage", nilLocalizer.T("NextPage"))
}

func TestInvalidDefaultLanguageUsesEnglish(t *testing.T) {
	catalog, err := New("not a tag!")
	require.NoError(t, err)

	assert.Equal(t, "en", catalog.Languages()[0])
}
