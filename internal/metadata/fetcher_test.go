package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const validDocument = `{
	"name": "Test Token",
	"symbol": "TST",
	"description": "A token for tests",
	"image": "https://example.com/image.png",
	"external_url": "https://example.com",
	"creator": {"name": "tester", "site": "https://example.com"}
}`

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(validDocument))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher()
	meta, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Equal(t, "Test Token", meta.Name)
	require.Equal(t, "TST", meta.Symbol)
	require.Equal(t, "https://example.com/image.png", meta.Image)
	require.NotNil(t, meta.Creator)
	require.Equal(t, "tester", meta.Creator.Name)
}

func TestFetch_InvalidURL(t *testing.T) {
	fetcher := NewHTTPFetcher()

	for _, rawURL := range []string{
		"",
		"ftp://example.com/meta.json",
		"meta.json",
		"https://",
	} {
		_, err := fetcher.Fetch(context.Background(), rawURL)
		require.ErrorIs(t, err, ErrInvalidURL, "url %q", rawURL)
	}
}

func TestFetch_Non2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher()
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.ErrorIs(t, err, ErrUnreachable)
	require.Contains(t, err.Error(), "404")
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before the request

	fetcher := NewHTTPFetcher()
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.ErrorIs(t, err, ErrUnreachable)
}

func TestFetch_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher()
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.ErrorIs(t, err, ErrMalformed)
}

func TestFetch_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"symbol":"TST","description":"d","image":"i"}`},
		{"missing symbol", `{"name":"T","description":"d","image":"i"}`},
		{"missing description", `{"name":"T","symbol":"TST","image":"i"}`},
		{"missing image", `{"name":"T","symbol":"TST","description":"d"}`},
		{"empty name", `{"name":"","symbol":"TST","description":"d","image":"i"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			fetcher := NewHTTPFetcher()
			_, err := fetcher.Fetch(context.Background(), srv.URL)

			require.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestValidateURL(t *testing.T) {
	require.NoError(t, ValidateURL("https://example.com/meta.json"))
	require.NoError(t, ValidateURL("http://localhost:8080/meta.json"))
	require.ErrorIs(t, ValidateURL(""), ErrInvalidURL)
	require.ErrorIs(t, ValidateURL("file:///etc/passwd"), ErrInvalidURL)
	require.ErrorIs(t, ValidateURL("//example.com/meta.json"), ErrInvalidURL)
}
