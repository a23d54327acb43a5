// Package transport implements the network boundary of the backend client.
//
// The client core only depends on two narrow interfaces: [Fetcher] for
// opaque GET/POST byte exchanges and [KeyFileDownloader] for decoding
// diagnosis key files from the retrieval endpoints. The default
// implementations speak plain HTTPS; alternatives (byte-range downloads,
// caching layers, instrumented clients) can be injected at client
// construction without touching the protocol core.
package transport
