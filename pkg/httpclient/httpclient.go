package httpclient

import (
	"net/http"
	"strings"
)

// NewGitHubClient creates an HTTP client for GitHub requests. When token is
// non-empty it is attached as a bearer credential, but only to GitHub-hosted
// URLs; other hosts never see it.
func NewGitHubClient(token string) *http.Client {
	return &http.Client{
		Transport: &gitHubTransport{
			Base:  http.DefaultTransport,
			Token: token,
		},
	}
}

// gitHubTransport is a custom RoundTripper that adds GitHub authentication
type gitHubTransport struct {
	Base  http.RoundTripper
	Token string
}

// RoundTrip implements the http.RoundTripper interface
func (t *gitHubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req2 := req.Clone(req.Context())

	// An Authorization header set by the caller wins over the injected token
	if t.Token != "" && req2.Header.Get("Authorization") == "" && isGitHubURL(req2.URL.String()) {
		req2.Header.Set("Authorization", "Bearer "+t.Token)
	}

	return t.Base.RoundTrip(req2)
}

// isGitHubURL checks if a URL is a GitHub URL
func isGitHubURL(url string) bool {
	return strings.Contains(url, "github.com") || strings.Contains(url, "githubusercontent.com")
}
