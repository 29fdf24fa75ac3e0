package cookie_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/cookie"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func TestMemoryJar_SetGet(t *testing.T) {
	jar := cookie.NewMemoryJar(cookie.WithNowTime(fixedNow))

	jar.Set(cookie.Cookie{Name: "a", Value: "1", Expires: testNow.Add(time.Hour)})
	c, ok := jar.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", c.Value)

	_, ok = jar.Get("missing")
	require.False(t, ok)
}

func TestMemoryJar_ExpiredCookieIsGone(t *testing.T) {
	jar := cookie.NewMemoryJar(cookie.WithNowTime(fixedNow))

	jar.Set(cookie.Cookie{Name: "a", Value: "1", Expires: testNow.Add(-time.Minute)})
	_, ok := jar.Get("a")
	require.False(t, ok)
}

func TestMemoryJar_ExpiredWriteDeletes(t *testing.T) {
	jar := cookie.NewMemoryJar(cookie.WithNowTime(fixedNow))

	jar.Set(cookie.Cookie{Name: "a", Value: "1", Expires: testNow.Add(time.Hour)})
	jar.Set(cookie.Cookie{Name: "a", Value: "", Expires: testNow.Add(-time.Hour)})
	_, ok := jar.Get("a")
	require.False(t, ok)
}

func TestMemoryJar_EndSessionDropsSessionCookiesOnly(t *testing.T) {
	jar := cookie.NewMemoryJar(cookie.WithNowTime(fixedNow))

	jar.Set(cookie.Cookie{Name: "persistent", Value: "1", Expires: testNow.Add(time.Hour)})
	jar.Set(cookie.Cookie{Name: "transient", Value: "2", Session: true})

	jar.EndSession()

	_, ok := jar.Get("transient")
	require.False(t, ok)
	_, ok = jar.Get("persistent")
	require.True(t, ok)
}

func TestFileJar_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")

	jar, err := cookie.NewFileJar(path, cookie.WithFileNowTime(fixedNow))
	require.NoError(t, err)
	jar.Set(cookie.Cookie{Name: "a", Value: "1", Expires: testNow.Add(time.Hour)})

	reopened, err := cookie.NewFileJar(path, cookie.WithFileNowTime(fixedNow))
	require.NoError(t, err)
	c, ok := reopened.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", c.Value)
}

func TestFileJar_SessionCookiesNeverTouchDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")

	jar, err := cookie.NewFileJar(path, cookie.WithFileNowTime(fixedNow))
	require.NoError(t, err)
	jar.Set(cookie.Cookie{Name: "persistent", Value: "1", Expires: testNow.Add(time.Hour)})
	jar.Set(cookie.Cookie{Name: "transient", Value: "2", Session: true})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "transient")

	// A new jar over the same file is a browser restart: the session
	// cookie is gone, the persistent one survives.
	reopened, err := cookie.NewFileJar(path, cookie.WithFileNowTime(fixedNow))
	require.NoError(t, err)
	_, ok := reopened.Get("transient")
	require.False(t, ok)
	_, ok = reopened.Get("persistent")
	require.True(t, ok)
}

func TestFileJar_ExpiredOnReadIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")

	now := testNow
	jar, err := cookie.NewFileJar(path, cookie.WithFileNowTime(func() time.Time { return now }))
	require.NoError(t, err)
	jar.Set(cookie.Cookie{Name: "a", Value: "1", Expires: testNow.Add(time.Minute)})

	now = testNow.Add(2 * time.Minute)
	_, ok := jar.Get("a")
	require.False(t, ok)
}
