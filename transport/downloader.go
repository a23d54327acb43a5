package transport

import "context"

// DiagnosisKeyFile is the opaque content of one diagnosis key file as
// served by the retrieval endpoints. Decoding the export format inside is
// the platform's concern, not this client's.
type DiagnosisKeyFile []byte

// KeyFileDownloader fetches and decodes the diagnosis key files behind a
// signed retrieval URL. Implementations may split the download into ranges
// or chunks; the client core only sees the resulting file sequence.
type KeyFileDownloader interface {
	Download(ctx context.Context, url string) ([]DiagnosisKeyFile, error)
}

// HTTPKeyFileDownloader is the default downloader: a single full-body GET
// yielding one file.
type HTTPKeyFileDownloader struct {
	fetcher Fetcher
}

// NewHTTPKeyFileDownloader creates a downloader on top of a fetcher.
func NewHTTPKeyFileDownloader(fetcher Fetcher) *HTTPKeyFileDownloader {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	return &HTTPKeyFileDownloader{fetcher: fetcher}
}

// Download fetches the signed URL and returns its body as a single file.
func (d *HTTPKeyFileDownloader) Download(ctx context.Context, url string) ([]DiagnosisKeyFile, error) {
	data, err := d.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return []DiagnosisKeyFile{DiagnosisKeyFile(data)}, nil
}
