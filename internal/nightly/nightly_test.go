package nightly

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neviraller/internal/shell"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("NVIM v0.11.0-dev-1234+gabcdef0\nBuild type: Release")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 0, Minor: 11, Dev: true, Build: 1234, Commit: "abcdef0", Raw: "v0.11.0-dev-1234+gabcdef0"}, v)

	v, err = ParseVersion("NVIM v0.10.0-dev-2734")
	require.NoError(t, err)
	assert.True(t, v.Dev)
	assert.Equal(t, 2734, v.Build)

	v, err = ParseVersion("NVIM v0.9.5-dev-a1b2c3d4e")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e", v.Commit)
	assert.Equal(t, 0, v.Build)

	v, err = ParseVersion("NVIM v0.10.2")
	require.NoError(t, err)
	assert.False(t, v.Dev)
	assert.Equal(t, "v0.10.2", v.String())

	_, err = ParseVersion("vim 9.1")
	assert.True(t, errors.Is(err, ErrNoVersion))
}

func mustParse(t *testing.T, s string) Version {
	t.Helper()
	v, err := ParseVersion(s)
	require.NoError(t, err)
	return v
}

func TestVersionOrdering(t *testing.T) {
	ordered := []string{
		"v0.9.5",
		"v0.10.0-dev-100+gaaaaaaa",
		"v0.10.0-dev-2734+gbbbbbbb",
		"v0.10.0",
		"v0.10.1",
		"v0.11.0-dev-1",
		"v1.0.0",
	}
	for i := range ordered {
		for j := range ordered {
			a, b := mustParse(t, ordered[i]), mustParse(t, ordered[j])
			want := sign(i - j)
			assert.Equal(t, want, a.Compare(b), "%s vs %s", ordered[i], ordered[j])
		}
	}
}

func TestNewer(t *testing.T) {
	installed := mustParse(t, "NVIM v0.11.0-dev-1234+gabcdef0")
	assert.False(t, Newer(installed, mustParse(t, "v0.11.0-dev-1234+gabcdef0")))
	assert.True(t, Newer(installed, mustParse(t, "v0.11.0-dev-1235+g1111111")))
	assert.True(t, Newer(installed, mustParse(t, "v0.11.0-dev-1234+g9999999")), "same number, new commit")
	assert.False(t, Newer(installed, mustParse(t, "v0.10.0")))
}

const releasePage = `<html><head>
<meta name="twitter:description" content="NVIM v0.11.0-dev-1234+gabcdef0 Build type: Release LuaJIT 2.1">
</head><body></body></html>`

const releaseNotesOnly = `<html><head></head><body>
<div class="markdown-body"><pre><code>NVIM v0.11.0-dev-77+g0123456
Build type: Release</code></pre></div>
</body></html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScraperMetaTag(t *testing.T) {
	srv := serve(t, http.StatusOK, releasePage)
	s := &Scraper{Client: srv.Client(), URL: srv.URL}
	v, err := s.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1234, v.Build)
	assert.Equal(t, "abcdef0", v.Commit)
}

func TestScraperFallsBackToReleaseNotes(t *testing.T) {
	srv := serve(t, http.StatusOK, releaseNotesOnly)
	s := &Scraper{Client: srv.Client(), URL: srv.URL}
	v, err := s.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 77, v.Build)
}

func TestScraperErrors(t *testing.T) {
	srv := serve(t, http.StatusOK, "<html><body>nothing</body></html>")
	_, err := (&Scraper{Client: srv.Client(), URL: srv.URL}).Latest(context.Background())
	assert.True(t, errors.Is(err, ErrNoVersion))

	srv = serve(t, http.StatusNotFound, "")
	_, err = (&Scraper{Client: srv.Client(), URL: srv.URL}).Latest(context.Background())
	assert.Error(t, err)
}

func TestInstalled(t *testing.T) {
	f := shell.NewFake().On("nvim --version", "NVIM v0.10.0-dev-5+g1234567\nBuild type: Debug")
	v, ok, err := Installed(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, v.Build)

	v, ok, err = Installed(context.Background(), shell.NewFake())
	require.NoError(t, err)
	assert.False(t, ok, "missing nvim is not an error")
	assert.Equal(t, Version{}, v)

	_, _, err = Installed(context.Background(), shell.NewFake().Fail("nvim --version", 1))
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	srv := serve(t, http.StatusOK, "#!/bin/sh\necho nvim\n")
	dest := filepath.Join(t.TempDir(), "nvim.appimage")
	n, err := Download(context.Background(), srv.Client(), srv.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestDownloadFailureLeavesNothing(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, "")
	dir := t.TempDir()
	_, err := Download(context.Background(), srv.Client(), srv.URL, filepath.Join(dir, "nvim"))
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
