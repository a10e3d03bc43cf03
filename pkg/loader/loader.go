package loader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"
)

// Common errors.
var (
	ErrLoadInProgress  = errors.New("loader: load already in progress")
	ErrTimeoutRequired = errors.New("loader: config timeout is required")
)

// Cancellation causes. context.Cause on the load's token answers who
// signalled first, so a transport error racing an abort or timeout is
// swallowed instead of double-reported.
var (
	errAborted   = errors.New("loader: aborted by caller")
	errTimedOut  = errors.New("loader: timed out")
	errDestroyed = errors.New("loader: destroyed")
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Timer is the handle of a scheduled watchdog.
type Timer interface {
	Stop() bool
}

// Options configures a Loader.
type Options struct {
	// Client issues the requests.
	// Default: a client with compression disabled and no cookie jar.
	Client Doer

	// Factory builds requests when a load's Config does not override it.
	// Default: DefaultFactory.
	Factory RequestFactory

	// Now returns the current time.
	// Default: time.Now.
	Now func() time.Time

	// AfterFunc schedules the timeout watchdog.
	// Default: time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) Timer
}

// Config configures one load.
type Config struct {
	// Timeout bounds the entire load, headers and body included. The
	// watchdog is armed once at load start and is not reset by streaming
	// progress, so a slow body can still time out. Required.
	Timeout time.Duration

	// Factory overrides the loader-level request factory for this load.
	Factory RequestFactory
}

// phase of the load state machine. The four right-hand states are
// terminal; re-entering loading requires a fresh Load call, which brings
// a new cancellation token and fresh stats.
type phase int

const (
	idle phase = iota
	loading
	succeeded
	failed
	timedOut
	aborted
)

// Loader runs at most one load at a time. All methods are safe for
// concurrent use.
type Loader struct {
	opts Options

	mu     sync.Mutex
	gen    uint64
	phase  phase
	req    Request
	cb     Callbacks
	stats  Stats
	resp   *http.Response // last received response, headers only
	cancel context.CancelCauseFunc
	timer  Timer
}

// New creates a Loader, filling in defaults for unset options.
func New(opts Options) *Loader {
	if opts.Client == nil {
		opts.Client = defaultClient()
	}
	if opts.Factory == nil {
		opts.Factory = DefaultFactory
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		}
	}
	return &Loader{opts: opts}
}

// defaultClient builds the default HTTP client. Compression is disabled
// so byte counts match the wire, and no cookie jar is attached: the
// loader never sends ambient credentials.
func defaultClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  true,
		},
	}
}

// Load starts exactly one request and returns immediately; the outcome
// arrives through cb. It fails with ErrLoadInProgress while a previous
// load on this Loader has not settled.
func (l *Loader) Load(ctx context.Context, req Request, cfg Config, cb Callbacks) error {
	if cfg.Timeout <= 0 {
		return ErrTimeoutRequired
	}
	factory := cfg.Factory
	if factory == nil {
		factory = l.opts.Factory
	}

	l.mu.Lock()
	if l.phase == loading {
		l.mu.Unlock()
		return ErrLoadInProgress
	}
	loadCtx, cancel := context.WithCancelCause(ctx)
	l.gen++
	gen := l.gen
	l.phase = loading
	l.req = req
	l.cb = cb
	l.stats = Stats{RequestStart: l.opts.Now()}
	l.resp = nil
	l.cancel = cancel
	l.timer = l.opts.AfterFunc(cfg.Timeout, func() { l.watchdog(gen) })
	l.mu.Unlock()

	go l.run(loadCtx, gen, req, factory, cb)
	return nil
}

// Abort cancels the active load. The abort wins over any concurrently
// arriving transport or HTTP error: once the load is marked aborted, no
// error or timeout callback fires for it. Safe to call before, during or
// after a load, any number of times.
func (l *Loader) Abort() {
	l.mu.Lock()
	if l.phase != loading {
		l.mu.Unlock()
		return
	}
	l.stats.Aborted = true
	l.phase = aborted
	l.disarmLocked()
	cancel, cb := l.cancel, l.cb
	stats, req, resp := l.stats, l.req, l.resp
	l.mu.Unlock()

	cancel(errAborted)
	if cb.OnAbort != nil {
		cb.OnAbort(stats, req, resp)
	}
}

// Destroy tears the loader down: an internal abort that releases the
// watchdog and cancels any in-flight work without notifying OnAbort.
// Idempotent.
func (l *Loader) Destroy() {
	l.mu.Lock()
	l.disarmLocked()
	var cancel context.CancelCauseFunc
	if l.phase == loading {
		l.phase = aborted
		cancel = l.cancel
	}
	l.mu.Unlock()

	if cancel != nil {
		cancel(errDestroyed)
	}
}

// GetResponseHeader returns the named header from the last received
// response, or the empty string if no response has arrived or the
// header is absent.
func (l *Loader) GetResponseHeader(name string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.resp == nil {
		return ""
	}
	return l.resp.Header.Get(name)
}

// Stats returns a snapshot of the current load statistics.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// disarmLocked releases the watchdog. Every settle path runs through it
// so a stale timer can never fire after completion.
func (l *Loader) disarmLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// watchdog fires when the timeout elapses before the load settles. A
// timeout is its own terminal outcome, reported via OnTimeout: unlike
// Abort it does not mark the stats aborted.
func (l *Loader) watchdog(gen uint64) {
	l.mu.Lock()
	if l.gen != gen || l.phase != loading {
		l.mu.Unlock()
		return
	}
	l.phase = timedOut
	l.timer = nil
	cancel, cb := l.cancel, l.cb
	stats, req, resp := l.stats, l.req, l.resp
	l.mu.Unlock()

	cancel(errTimedOut)
	if cb.OnTimeout != nil {
		cb.OnTimeout(stats, req, resp)
	}
}

// run drives one load: build the request, wait for headers, branch to
// the progress pump and the primary decode, then settle.
func (l *Loader) run(ctx context.Context, gen uint64, req Request, factory RequestFactory, cb Callbacks) {
	hreq, err := factory(ctx, req, buildParams(req))
	if err != nil {
		l.fail(ctx, gen, networkFailure(err))
		return
	}

	resp, err := l.opts.Client.Do(hreq)
	if err != nil {
		l.fail(ctx, gen, networkFailure(err))
		return
	}
	defer resp.Body.Close()

	if !l.headersReceived(gen, resp) {
		return // settled while waiting for headers
	}

	if !isSuccess(resp.StatusCode) {
		l.fail(ctx, gen, statusFailure(resp))
		return
	}

	body := io.Reader(resp.Body)
	var pumpWriter *io.PipeWriter
	pumpDone := make(chan struct{})
	if cb.OnProgress != nil {
		var pumpReader *io.PipeReader
		pumpReader, pumpWriter = io.Pipe()
		body = io.TeeReader(resp.Body, &progressWriter{pw: pumpWriter})
		go l.pump(gen, pumpReader, resp, cb, pumpDone)
	} else {
		close(pumpDone)
	}

	data, err := io.ReadAll(body)
	if pumpWriter != nil {
		pumpWriter.Close()
	}
	<-pumpDone // progress callbacks precede the terminal callback
	if err != nil {
		l.fail(ctx, gen, networkFailure(err))
		return
	}

	l.succeed(gen, req, resp, data, cb)
}

// headersReceived records the response, the first-byte timestamp and the
// total size inferred from length headers. It reports false if the load
// has already settled.
func (l *Loader) headersReceived(gen uint64, resp *http.Response) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return false
	}
	l.resp = resp
	if l.phase != loading {
		return false
	}
	l.stats.FirstByte = laterOf(l.opts.Now(), l.stats.RequestStart)
	if resp.ContentLength > 0 {
		l.stats.BytesTotal = resp.ContentLength
	} else if cr := resp.Header.Get("Content-Range"); cr != "" {
		if start, end, _, err := parseContentRange(cr); err == nil && end >= start {
			l.stats.BytesTotal = end - start + 1
		}
	}
	return true
}

// fail settles the load as failed unless the token says an abort,
// timeout or teardown signalled first: those paths have already
// delivered their own notification, so the error is swallowed.
func (l *Loader) fail(ctx context.Context, gen uint64, failure *Failure) {
	switch context.Cause(ctx) {
	case errAborted, errTimedOut, errDestroyed:
		return
	}

	l.mu.Lock()
	if l.gen != gen || l.phase != loading {
		l.mu.Unlock()
		return
	}
	l.phase = failed
	l.disarmLocked()
	cb := l.cb
	stats, req, resp := l.stats, l.req, l.resp
	l.mu.Unlock()

	if cb.OnError != nil {
		cb.OnError(failure, stats, req, resp)
	}
}

// succeed finalizes the stats and settles the load. A timeout or abort
// that won the race beforehand swallows the result.
func (l *Loader) succeed(gen uint64, req Request, resp *http.Response, data []byte, cb Callbacks) {
	l.mu.Lock()
	if l.gen != gen || l.phase != loading {
		l.mu.Unlock()
		return
	}
	l.phase = succeeded
	l.disarmLocked()
	l.stats.Complete = laterOf(l.opts.Now(), l.stats.FirstByte)
	// The decoded size is authoritative, overriding any total inferred
	// from headers.
	l.stats.BytesLoaded = int64(len(data))
	l.stats.BytesTotal = int64(len(data))
	stats := l.stats
	l.mu.Unlock()

	result := Result{URL: finalURL(resp, req)}
	switch req.ResponseType {
	case Text:
		result.Text = string(data)
	default:
		result.Data = data
	}
	if cb.OnSuccess != nil {
		cb.OnSuccess(result, stats, req, resp)
	}
}

// finalURL is the URL after any redirects the transport followed.
func finalURL(resp *http.Response, req Request) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return req.URL
}
