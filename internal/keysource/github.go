package keysource

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const (
	// DefaultGitHubURL serves public key listings at /<user>.keys.
	DefaultGitHubURL = "https://github.com"
	// DefaultGitHubTimeout bounds the whole key listing request.
	DefaultGitHubTimeout = 10 * time.Second

	maxListingSize = 1 << 20
)

var githubUserPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,37}[A-Za-z0-9])?$`)

// GitHubFetcher retrieves the public keys a GitHub user has published.
type GitHubFetcher struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewGitHubFetcher creates a fetcher for baseURL (DefaultGitHubURL when
// empty) whose requests give up after timeout.
func NewGitHubFetcher(baseURL string, timeout time.Duration, logger *slog.Logger) *GitHubFetcher {
	if baseURL == "" {
		baseURL = DefaultGitHubURL
	}
	if timeout <= 0 {
		timeout = DefaultGitHubTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitHubFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// FetchKeys returns the ed25519 keys listed for user, in listing order.
func (f *GitHubFetcher) FetchKeys(ctx context.Context, user string) ([]ed25519.PublicKey, error) {
	source := "github:" + user
	if !githubUserPattern.MatchString(user) {
		return nil, &KeySourceUnavailableError{Source: source, Reason: "invalid GitHub username"}
	}

	keyURL := fmt.Sprintf("%s/%s.keys", f.baseURL, url.PathEscape(user))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, keyURL, nil)
	if err != nil {
		return nil, &KeySourceUnavailableError{Source: source, Reason: "create request", Err: err}
	}
	req.Header.Set("Accept", "text/plain")

	f.logger.Debug("fetching GitHub keys", "url", keyURL)
	resp, err := f.client.Do(req)
	if err != nil {
		reason := "request failed"
		if isTimeout(err) {
			reason = "request timed out"
		}
		return nil, &KeySourceUnavailableError{Source: source, Reason: reason, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &KeySourceUnavailableError{Source: source, Reason: "user not found"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &KeySourceUnavailableError{
			Source: source,
			Reason: fmt.Sprintf("GitHub returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingSize))
	if err != nil {
		return nil, &KeySourceUnavailableError{Source: source, Reason: "read response", Err: err}
	}

	keys, skipped := ParseAuthorizedKeys(body)
	for _, e := range multierr.Errors(skipped) {
		f.logger.Debug("skipped GitHub key line", "user", user, "reason", e)
	}
	if len(keys) == 0 {
		return nil, &KeySourceUnavailableError{Source: source, Reason: "no ed25519 keys published", Err: skipped}
	}

	f.logger.Debug("fetched GitHub keys", "user", user, "ed25519", len(keys), "skipped", len(multierr.Errors(skipped)))
	return keys, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
