// Package placeholder provides an HTTP client for JSONPlaceholder-compatible
// REST APIs.
//
// # Overview
//
// The package owns every outbound call roster makes. It joins endpoints onto a
// configured base URL, encodes request bodies as JSON, applies a per-request
// timeout and converts every failure into a single *APIError before it reaches
// a caller.
//
// # Architecture
//
//   - client.go: Client, Do and the generic GetJSON/PostJSON/PutJSON/PatchJSON helpers
//   - errors.go: APIError and failure classification
//   - service.go: the typed endpoint catalogue (API interface and Service)
//   - types.go: users, posts, comments and their request bodies
//   - filter.go: client-side user search
//
// # Client Usage
//
//	client, err := placeholder.NewClient(placeholder.ClientConfig{
//		BaseURL: "https://jsonplaceholder.typicode.com",
//		Timeout: 10 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	api := placeholder.NewService(client)
//	users, err := api.ListUsers(ctx)
//
// # Error Handling
//
// Every failure from Client.Do is an *APIError of one of four kinds:
//
//   - KindTimeout: the request deadline passed. Status is 408 and the message
//     is "Request timeout".
//   - KindHTTP: the server answered with a non-2xx status. A JSON body may
//     supply message and details; otherwise the message is
//     "HTTP <status> <status text>", for example "HTTP 404 Not Found".
//   - KindNetwork: any other transport failure. Status is 0, the message is
//     "Network error" and Details carries the underlying cause.
//     Requests that could not be built or decoded use this kind too.
//   - KindCanceled: the caller's context was cancelled. Status is 0 and the
//     message is "Request cancelled".
//
// Requests are never retried. Callers decide when to try again.
//
// # Request Handling
//
// Every request carries Accept: application/json, a User-Agent and a fresh
// X-Request-ID. When ClientConfig.RateLimit is positive, requests wait on a
// token bucket before they are sent; a wait that cannot finish before the
// deadline is reported as a timeout.
//
// Successful responses with a JSON content type are decoded into the
// destination. Other bodies are returned as raw text when the destination is
// a *string or *[]byte.
package placeholder
