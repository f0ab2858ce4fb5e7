package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.Handler) *Resolver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	r, err := NewResolver(WithBaseURL(server.URL))
	require.NoError(t, err)
	return r
}

func TestLatestTag(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
		wantErr string
	}{
		{
			name: "latest release tag",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/hypersdk/hypersdk/releases/latest", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"tag_name":"v1.2.3"}`))
			},
			want: "v1.2.3",
		},
		{
			name: "response without tag_name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"name":"untagged"}`))
			},
			wantErr: "no tag name",
		},
		{
			name: "empty tag_name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"tag_name":""}`))
			},
			wantErr: "no tag name",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: "failed to fetch latest release",
		},
		{
			name: "prerelease-only repo falls back to release list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/repos/hypersdk/hypersdk/releases/latest":
					http.Error(w, "not found", http.StatusNotFound)
				case "/repos/hypersdk/hypersdk/releases":
					w.Write([]byte(`[{"tag_name":"v0.9.0-rc.1"}]`))
				default:
					http.Error(w, "unexpected path", http.StatusInternalServerError)
				}
			},
			want: "v0.9.0-rc.1",
		},
		{
			name: "no releases at all",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/repos/hypersdk/hypersdk/releases/latest":
					http.Error(w, "not found", http.StatusNotFound)
				case "/repos/hypersdk/hypersdk/releases":
					w.Write([]byte(`[]`))
				default:
					http.Error(w, "unexpected path", http.StatusInternalServerError)
				}
			},
			wantErr: "no releases found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.handler)
			got, err := r.LatestTag(context.Background(), "hypersdk/hypersdk")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLatestTagEmptyTagIsSentinel(t *testing.T) {
	r := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":123}`))
	}))

	_, err := r.LatestTag(context.Background(), "hypersdk/hypersdk")
	assert.True(t, errors.Is(err, ErrEmptyTag), "got error %v", err)
}

func TestLatestTagInvalidRepo(t *testing.T) {
	called := false
	r := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		called = true
	}))

	tests := []string{"", "hypersdk", "/hypersdk", "hypersdk/"}
	for _, repo := range tests {
		_, err := r.LatestTag(context.Background(), repo)
		assert.Error(t, err, "repo %q", repo)
	}
	assert.False(t, called, "malformed repo must not reach the network")
}

func TestNewResolverBadBaseURL(t *testing.T) {
	_, err := NewResolver(WithBaseURL("://bad"))
	assert.Error(t, err)
}
