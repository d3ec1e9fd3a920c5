// Package remote provides an HTTP client for the album catalogue API.
//
// # Overview
//
// The client fetches the full album collection from GET {base}/albums and
// reports the outcome in a form the repository layer can classify without
// parsing error strings.
//
//   - client.go: HTTP client, request handling and error classification
//   - types.go: wire types and the Response envelope
//   - errors.go: TimeoutError and ConnectivityError
//
// # Client Usage
//
//	client, err := remote.NewClient("https://jsonplaceholder.typicode.com/")
//	if err != nil {
//		return err
//	}
//	resp, err := client.FetchAlbums(ctx)
//	switch {
//	case remote.IsTimeout(err):
//		// fall back to the local copy
//	case remote.IsConnectivity(err):
//		// report no network
//	case err != nil:
//		// unclassified, propagate
//	case !resp.Successful:
//		// resp.StatusCode carries the rejection
//	}
//
// # Response Semantics
//
// A response that reaches the client is never an error: any status outside
// 2xx comes back as Response{Successful: false, StatusCode: n}. Only
// transport failures and malformed bodies are returned as errors.
//
// # Error Classification
//
// Transport failures are split in two:
//
//   - TimeoutError: the request or body read exceeded a deadline
//     (http.Client timeout, context.DeadlineExceeded, net.Error.Timeout()).
//   - ConnectivityError: any other failure to complete the round trip
//     (connection refused, DNS failure, reset).
//
// Context cancellation by the caller is neither; it is returned wrapped so the
// caller can tell it gave up. Decoding failures are also left unclassified.
//
// # URL Construction
//
// The base URL keeps its path so the API can be mounted under a prefix:
//
//   - "127.0.0.1:8080" → http://127.0.0.1:8080/albums
//   - "https://example.com/api" → https://example.com/api/albums
//
// # Thread Safety
//
// Client is safe for concurrent use.
package remote
