package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("response bytes"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	data, err := f.Get(context.Background(), srv.URL+"/some/path")
	require.NoError(t, err)
	assert.Equal(t, []byte("response bytes"), data)
}

func TestHTTPFetcherPost(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte{0xca, 0xfe})
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	body := []byte{0x00, 0x01, 0xff}
	data, err := f.Post(context.Background(), srv.URL+"/upload", body)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xca, 0xfe}, data)
	assert.Equal(t, body, gotBody, "binary body must pass through unmodified")
	assert.Equal(t, "application/x-protobuf", gotContentType)
}

func TestHTTPFetcherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	_, err := f.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPFetcherNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewHTTPFetcher()
	_, err := f.Get(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestHTTPFetcherContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTPFetcher()
	_, err := f.Get(ctx, srv.URL)
	assert.Error(t, err)
}

func TestHTTPKeyFileDownloader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("export.bin contents"))
	}))
	defer srv.Close()

	d := NewHTTPKeyFileDownloader(nil)
	files, err := d.Download(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, DiagnosisKeyFile("export.bin contents"), files[0])
}
