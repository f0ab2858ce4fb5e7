package release

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/pkg/errors"
)

// ErrEmptyTag reports a release whose tag name is missing or blank.
var ErrEmptyTag = errors.New("release has no tag name")

// Resolver looks up release tags for a GitHub repository.
type Resolver struct {
	client *github.Client
}

// Option configures a Resolver.
type Option func(*resolverOptions)

type resolverOptions struct {
	httpClient *http.Client
	baseURL    string
}

// WithHTTPClient sets the HTTP client used for API calls, typically one
// carrying a GitHub token.
func WithHTTPClient(c *http.Client) Option {
	return func(o *resolverOptions) {
		o.httpClient = c
	}
}

// WithBaseURL points the resolver at a different API host. Tests use this
// to target a local server.
func WithBaseURL(u string) Option {
	return func(o *resolverOptions) {
		o.baseURL = u
	}
}

// NewResolver creates a Resolver for the GitHub releases API.
func NewResolver(opts ...Option) (*Resolver, error) {
	var o resolverOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := github.NewClient(o.httpClient)
	if o.baseURL != "" {
		// go-github requires the base URL to end with a slash
		u, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrapf(err, "invalid API base URL: %s", o.baseURL)
		}
		client.BaseURL = u
	}

	return &Resolver{client: client}, nil
}

// LatestTag returns the tag name of the most recent published release of
// repo ("owner/name"). Network failure, a malformed response and a missing
// tag name all surface as errors; no retry and no caching happen here.
func (r *Resolver) LatestTag(ctx context.Context, repo string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}

	rel, resp, err := r.client.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			// Repos that only publish prereleases have no "latest"; fall
			// back to the newest entry in the release list.
			releases, _, lerr := r.client.Repositories.ListReleases(ctx, owner, name, &github.ListOptions{
				PerPage: 1,
			})
			if lerr != nil {
				return "", errors.Wrap(lerr, "failed to fetch releases")
			}
			if len(releases) == 0 {
				return "", errors.Errorf("no releases found for %s", repo)
			}
			return tagOf(releases[0])
		}
		return "", errors.Wrap(err, "failed to fetch latest release")
	}

	return tagOf(rel)
}

func tagOf(rel *github.RepositoryRelease) (string, error) {
	if rel == nil || rel.TagName == nil || *rel.TagName == "" {
		return "", ErrEmptyTag
	}
	return *rel.TagName, nil
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository format: %s", repo)
	}
	return parts[0], parts[1], nil
}
