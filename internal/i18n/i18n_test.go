package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/meridian-admin/meridian-admin/testing"
)

func TestTranslateWithParams(t *testing.T) {
	tr := New("en")
	got := tr.Translate("COMMON.FIELD_MUST_BE_FILLED", "en", "email")
	require.Equal(t, "email field must be filled", got)

	got = tr.Translate("COMMON.FIELD_MUST_BE_TYPE", "en", "is_active", "boolean")
	require.Equal(t, "is_active field must be boolean", got)
}

func TestTranslateTurkish(t *testing.T) {
	tr := New("en")
	got := tr.Translate("USERS.AUTH_ERROR", "tr")
	require.Equal(t, "Yanlış! Email ya da şifre", got)
}

func TestTranslateRegionVariantsMatchBaseLanguage(t *testing.T) {
	tr := New("en")
	require.Equal(t,
		tr.Translate("USERS.AUTH_ERROR", "tr"),
		tr.Translate("USERS.AUTH_ERROR", "tr-TR"))
	require.Equal(t,
		tr.Translate("USERS.AUTH_ERROR", "en"),
		tr.Translate("USERS.AUTH_ERROR", "en-GB"))
}

func TestTranslateUnknownLocaleFallsBack(t *testing.T) {
	tr := New("en")
	require.Equal(t, "Wrong! Email or password", tr.Translate("USERS.AUTH_ERROR", "zz-unknown"))
	require.Equal(t, "Wrong! Email or password", tr.Translate("USERS.AUTH_ERROR", ""))
}

func TestTranslateUnknownKeyReturnsKey(t *testing.T) {
	tr := New("en")
	require.Equal(t, "COMMON.NO_SUCH_KEY", tr.Translate("COMMON.NO_SUCH_KEY", "en"))
}

func TestNewRejectsUnsupportedDefault(t *testing.T) {
	tr := New("fr")
	require.Equal(t, "en", tr.DefaultLocale())
}
