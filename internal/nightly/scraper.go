package nightly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"neviraller/internal/shell"
)

// Scraper reads the latest nightly version from the GitHub release page.
type Scraper struct {
	Client *http.Client
	URL    string
	Logger *slog.Logger
}

// Latest fetches the release page and returns the advertised version.
// The twitter:description meta tag is tried first, then the first code
// block of the release notes ("NVIM v0.11.0-dev-...").
func (s *Scraper) Latest(ctx context.Context) (Version, error) {
	doc, err := s.fetch(ctx)
	if err != nil {
		return Version{}, err
	}

	var found string
	doc.Find("meta[name='twitter:description']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		content, _ := sel.Attr("content")
		if loc := versionPattern.FindStringIndex(content); loc != nil {
			found = content[loc[0]:loc[1]]
			return false
		}
		return true
	})
	if found != "" {
		return ParseVersion(found)
	}

	s.logger().Warn("release page has no version meta tag, reading release notes", "url", s.URL)
	doc.Find(".markdown-body pre code").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimPrefix(strings.TrimSpace(sel.Text()), "NVIM ")
		if versionPattern.MatchString(firstLine(text)) {
			found = firstLine(text)
			return false
		}
		return true
	})
	if found == "" {
		return Version{}, fmt.Errorf("%w on %s", ErrNoVersion, s.URL)
	}
	return ParseVersion(found)
}

func (s *Scraper) fetch(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", s.URL, resp.Status)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.URL, err)
	}
	return doc, nil
}

func (s *Scraper) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Installed runs `nvim --version` and parses its first line. ok is false
// when nvim is not installed.
func Installed(ctx context.Context, r shell.Runner) (v Version, ok bool, err error) {
	res, err := r.Run(ctx, shell.Command{Name: "nvim", Args: []string{"--version"}})
	if err != nil {
		var exitErr *shell.ExitError
		if errors.Is(err, exec.ErrNotFound) || (errors.As(err, &exitErr) && exitErr.ExitCode == 127) {
			return Version{}, false, nil
		}
		return Version{}, false, fmt.Errorf("nvim --version: %w", err)
	}
	v, err = ParseVersion(firstLine(res.Output))
	if err != nil {
		return Version{}, true, err
	}
	return v, true, nil
}

// Download fetches url into dest via a temp file in the same directory,
// so a failed download never leaves a partial file behind. It returns the
// number of bytes written.
func Download(ctx context.Context, client *http.Client, url, dest string) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", dest, err)
	}
	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return n, fmt.Errorf("chmod %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return n, fmt.Errorf("rename %s: %w", dest, err)
	}
	return n, nil
}
