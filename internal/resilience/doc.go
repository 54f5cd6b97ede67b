// Package resilience groups the fault tolerance helpers used by the ingestion worker.
//
//   - circuitbreaker wraps sony/gobreaker with named presets for feed and article fetching.
//   - retry runs an operation with exponential backoff and jitter.
//
// The API process does not use them: refresh requests are single attempts.
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) { return fetch(ctx) })
//	    return err
//	})
package resilience
