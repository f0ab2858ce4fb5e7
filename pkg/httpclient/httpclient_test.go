package httpclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGitHubTransportInjectsToken(t *testing.T) {
	// Echo back the Authorization header so tests can see what was sent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "" {
			w.Write([]byte(auth))
		} else {
			w.Write([]byte("no auth"))
		}
	}))
	defer server.Close()

	tests := []struct {
		name  string
		url   string
		token string
		want  string
	}{
		{
			name:  "GitHub URL with token",
			url:   "https://github.com/hypersdk/hypersdk/releases/latest",
			token: "ghp_testtoken123",
			want:  "Bearer ghp_testtoken123",
		},
		{
			name:  "GitHub API URL with token",
			url:   "https://api.github.com/repos/hypersdk/hypersdk/releases/latest",
			token: "ghp_testtoken456",
			want:  "Bearer ghp_testtoken456",
		},
		{
			name:  "GitHub URL without token",
			url:   "https://github.com/hypersdk/hypersdk/releases/latest",
			token: "",
			want:  "no auth",
		},
		{
			name:  "non-GitHub URL never sees the token",
			url:   "https://example.com/file",
			token: "ghp_testtoken789",
			want:  "no auth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &gitHubTransport{
				Base:  &redirectTransport{server.URL},
				Token: tt.token,
			}

			req, err := http.NewRequest("GET", tt.url, nil)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}

			resp, err := transport.RoundTrip(req)
			if err != nil {
				t.Fatalf("RoundTrip error: %v", err)
			}
			defer resp.Body.Close()

			body := make([]byte, 1024)
			n, _ := resp.Body.Read(body)
			if got := string(body[:n]); got != tt.want {
				t.Errorf("Response = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubTransportPreservesExistingAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get("Authorization")))
	}))
	defer server.Close()

	transport := &gitHubTransport{
		Base:  &redirectTransport{server.URL},
		Token: "injected_token",
	}

	req, err := http.NewRequest("GET", "https://github.com/hypersdk/hypersdk", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer existing_token")

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip error: %v", err)
	}
	defer resp.Body.Close()

	body := make([]byte, 1024)
	n, _ := resp.Body.Read(body)
	if got, want := string(body[:n]), "Bearer existing_token"; got != want {
		t.Errorf("Response = %v, want %v", got, want)
	}
}

// redirectTransport sends every request to a test server regardless of host
type redirectTransport struct {
	testServerURL string
}

func (t *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	newReq := req.Clone(req.Context())
	newReq.URL.Host = strings.TrimPrefix(t.testServerURL, "http://")
	newReq.URL.Scheme = "http"
	return http.DefaultTransport.RoundTrip(newReq)
}

func TestIsGitHubURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "github.com URL",
			url:  "https://github.com/hypersdk/hypersdk",
			want: true,
		},
		{
			name: "api.github.com URL",
			url:  "https://api.github.com/repos/hypersdk/hypersdk",
			want: true,
		},
		{
			name: "raw.githubusercontent.com URL",
			url:  "https://raw.githubusercontent.com/hypersdk/hypersdk/main/file",
			want: true,
		},
		{
			name: "non-GitHub URL",
			url:  "https://example.com/file",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isGitHubURL(tt.url); got != tt.want {
				t.Errorf("isGitHubURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewGitHubClient(t *testing.T) {
	client := NewGitHubClient("tok")
	if client == nil {
		t.Fatal("NewGitHubClient() returned nil")
	}

	transport, ok := client.Transport.(*gitHubTransport)
	if !ok {
		t.Fatal("NewGitHubClient() did not set gitHubTransport")
	}
	if transport.Token != "tok" {
		t.Errorf("Token = %v, want tok", transport.Token)
	}
	if transport.Base != http.DefaultTransport {
		t.Error("gitHubTransport.Base is not http.DefaultTransport")
	}
}
