// Package loader implements a single-request, cancellable HTTP resource
// loader with timing statistics and streamed progress reporting.
//
// A Loader runs at most one GET request at a time, optionally restricted
// to a byte range. The caller races an explicit timeout against the
// network response, can abort cooperatively at any point, and receives
// the outcome through a set of callbacks: exactly one of OnSuccess,
// OnError or OnTimeout fires per load, unless the load is aborted, in
// which case only OnAbort fires.
//
// # Usage
//
//	l := loader.New(loader.Options{})
//
//	err := l.Load(ctx,
//	    loader.Request{URL: url, RangeStart: 100, RangeEnd: 200},
//	    loader.Config{Timeout: 5 * time.Second},
//	    loader.Callbacks{
//	        OnSuccess: func(result loader.Result, stats loader.Stats, req loader.Request, resp *http.Response) {
//	            // result.Data holds the decoded payload
//	        },
//	        OnError: func(failure *loader.Failure, stats loader.Stats, req loader.Request, resp *http.Response) {
//	            // failure.Kind, failure.Code
//	        },
//	        OnTimeout: func(stats loader.Stats, req loader.Request, resp *http.Response) {},
//	    })
//
//	// Later, from any goroutine:
//	l.Abort()
//
// # Cancellation
//
// Abort, Destroy and the timeout watchdog all cancel one shared token.
// The cancellation cause recorded on the token decides which of them
// signalled first, so a transport error racing an abort is swallowed
// rather than double-reported.
//
// # Scope
//
// The loader does not retry, does not cache and does not interpret the
// payload. Retry and caching are policy layered above this package; the
// callback contract is the wire between them.
package loader
