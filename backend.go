// Package backend implements the client half of a privacy-preserving
// exposure-notification protocol: time-window HMAC authenticated retrieval
// of diagnosis key batches, one-time-code claims establishing a key pair
// binding with the server, and end-to-end encrypted key uploads using NaCl
// box authenticated encryption.
//
// Example:
//
//	client, err := backend.New(backend.Options{
//	    RetrieveURL: "https://retrieval.example.org",
//	    SubmitURL:   "https://submission.example.org",
//	    HMACKey:     "3b69...c1",
//	    Region:      "302",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	keySet, err := client.ClaimOneTimeCode(ctx, "AAABBBCCC")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer keySet.Wipe()
//
//	_, err = client.ReportDiagnosisKeys(ctx, keySet, keys)
//
// All operations are single-shot network calls with no internal retries; a
// Client holds only immutable configuration and is safe for concurrent use.
package backend

import (
	"fmt"

	"github.com/exposurekit/backend/crypto"
	"github.com/exposurekit/backend/transport"
)

// DefaultRegion is the MCC used for the exposure configuration endpoint
// when Options.Region is left empty.
const DefaultRegion = "302"

// Options contains configuration options for creating a Client. The three
// string fields are required; the collaborator fields default to the
// production implementations when nil.
type Options struct {
	// RetrieveURL is the base URL of the diagnosis key retrieval endpoints.
	RetrieveURL string

	// SubmitURL is the base URL of the claim and upload endpoints.
	SubmitURL string

	// HMACKey is the shared retrieval secret in hex form. It is decoded
	// once at construction.
	HMACKey string

	// Region selects the exposure configuration document. Empty defaults
	// to DefaultRegion.
	Region string

	// Fetcher exchanges opaque bytes with the backend.
	Fetcher transport.Fetcher

	// Downloader fetches and decodes diagnosis key files.
	Downloader transport.KeyFileDownloader

	// Random supplies key seeds and nonces.
	Random crypto.RandomSource

	// Time drives the signature hour epoch and upload timestamps.
	Time crypto.TimeProvider
}

// Client issues the four protocol operations against a retrieval and a
// submission endpoint. Construct it with New; the zero value is not usable.
type Client struct {
	retrieveURL string
	submitURL   string
	region      string
	signer      *crypto.Signer
	fetcher     transport.Fetcher
	downloader  transport.KeyFileDownloader
	random      crypto.RandomSource
	time        crypto.TimeProvider
}

// New creates a Client from the given options.
func New(opts Options) (*Client, error) {
	if opts.RetrieveURL == "" {
		return nil, fmt.Errorf("%w: retrieve URL is required", ErrInvalidArgument)
	}
	if opts.SubmitURL == "" {
		return nil, fmt.Errorf("%w: submit URL is required", ErrInvalidArgument)
	}

	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.Time == nil {
		opts.Time = crypto.DefaultTimeProvider{}
	}
	if opts.Random == nil {
		opts.Random = crypto.SystemRandomSource{}
	}
	if opts.Fetcher == nil {
		opts.Fetcher = transport.NewHTTPFetcher()
	}
	if opts.Downloader == nil {
		opts.Downloader = transport.NewHTTPKeyFileDownloader(opts.Fetcher)
	}

	signer, err := crypto.NewSignerWithTimeProvider(opts.HMACKey, opts.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return &Client{
		retrieveURL: opts.RetrieveURL,
		submitURL:   opts.SubmitURL,
		region:      opts.Region,
		signer:      signer,
		fetcher:     opts.Fetcher,
		downloader:  opts.Downloader,
		random:      opts.Random,
		time:        opts.Time,
	}, nil
}
