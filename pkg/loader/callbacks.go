package loader

import "net/http"

// Result is the decoded payload of a successful load.
type Result struct {
	// URL is the final URL, after any redirects the transport followed.
	URL string

	// Data holds the payload of a Binary request.
	Data []byte

	// Text holds the payload of a Text request.
	Text string
}

// Callbacks deliver load outcomes. Exactly one of OnSuccess, OnError or
// OnTimeout fires per load, unless the load is aborted, in which case
// only OnAbort fires. OnProgress and OnAbort are optional; leaving
// OnProgress unset disables the response pump entirely.
//
// Callbacks run on the loader's goroutines. They must not call Load on
// the same Loader directly; the load has settled by the time the
// terminal callback runs, so scheduling a new load from another
// goroutine is fine.
type Callbacks struct {
	OnSuccess  func(result Result, stats Stats, req Request, resp *http.Response)
	OnProgress func(stats Stats, req Request, chunk []byte, resp *http.Response)
	OnError    func(failure *Failure, stats Stats, req Request, resp *http.Response)
	OnTimeout  func(stats Stats, req Request, resp *http.Response)
	OnAbort    func(stats Stats, req Request, resp *http.Response)
}
