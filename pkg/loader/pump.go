package loader

import (
	"io"
	"net/http"
)

// progressWriter feeds the pump side of the tee. Once the pipe breaks it
// degrades to a discard, so a failing pump can never gate or fail the
// decode path.
type progressWriter struct {
	pw     *io.PipeWriter
	broken bool
}

func (w *progressWriter) Write(p []byte) (int, error) {
	if !w.broken {
		if _, err := w.pw.Write(p); err != nil {
			w.broken = true
		}
	}
	return len(p), nil
}

// pump reads the duplicated body chunk by chunk, accumulating
// Stats.BytesLoaded and emitting OnProgress. It stops silently when the
// stream ends or breaks: pumping is best-effort telemetry, never a
// terminal outcome.
func (l *Loader) pump(gen uint64, pr *io.PipeReader, resp *http.Response, cb Callbacks, done chan struct{}) {
	defer close(done)
	defer pr.Close()

	buf := make([]byte, 32*1024)
	for {
		n, err := pr.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if stats, req, ok := l.addBytes(gen, int64(n)); ok {
				cb.OnProgress(stats, req, chunk, resp)
			}
		}
		if err != nil {
			return
		}
	}
}

// addBytes accumulates progress for generation gen. It reports false
// once the load has settled, so no progress escapes after cancellation.
func (l *Loader) addBytes(gen uint64, n int64) (Stats, Request, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen || l.phase != loading {
		return Stats{}, Request{}, false
	}
	l.stats.BytesLoaded += n
	return l.stats, l.req, true
}
