// Package tmdb provides a client for The Movie Database discover endpoint.
//
// The package covers the fetch pipeline of the discover list: building the
// request for a sort order, executing it, and decoding the response into
// CatalogItem values.
//
// # Architecture
//
//   - RequestBuilder: pure construction of the discover URL
//   - Decode: tolerant parsing of the discover payload
//   - Client: executes a request and reports a tagged Outcome
//   - Prober: reachability check performed before each request
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := tmdb.NewClient(
//		tmdb.DefaultDiscoverURL,
//		"your-api-key",
//		logger,
//		tmdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome := client.Fetch(ctx, tmdb.TopRated)
//	if !outcome.OK() {
//		log.Printf("fetch failed (%s): %v", outcome.Reason, outcome.Err)
//	}
//
// # Error Handling
//
// Client.Fetch never returns an error. Failures are carried by the Outcome:
//
//   - ReasonNoConnectivity: the service could not be reached, no request was sent
//   - ReasonServerError: non-200 status (*APIError) or a transport failure
//   - ReasonDecodeError: the payload was not a JSON object with a results array
//
// ErrMissingCredential is returned by NewClient and NewRequestBuilder when no
// API key is configured.
package tmdb
